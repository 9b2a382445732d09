package httpserver

import (
	"context"
	"net/http"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
)

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		s.error(w, errs.ErrUnauthorized)
		return
	}
	var req createDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err)
		return
	}
	device, err := s.svc.Devices.CreateDevice(r.Context(), p, req.DeviceID)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDeviceResponse(registeredOnly(*device)))
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		s.error(w, errs.ErrUnauthorized)
		return
	}
	devices, err := s.svc.Devices.ListDevices(r.Context(), p)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDeviceResponses(devices))
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	p, deviceID, err := s.devicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	rd, err := s.svc.Devices.GetDevice(r.Context(), p, deviceID)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDeviceResponse(*rd))
}

func (s *Server) handleListUserDevices(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		s.error(w, errs.ErrUnauthorized)
		return
	}
	ownerID, err := uuidParam(r, "userId")
	if err != nil {
		s.error(w, err)
		return
	}
	devices, err := s.svc.Devices.ListUserDevices(r.Context(), p, ownerID)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDeviceResponses(devices))
}

func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	p, ownerID, deviceID, err := s.userDevicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	if err := s.svc.Devices.RegisterDevice(r.Context(), p, ownerID, deviceID); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUnregisterDevice(w http.ResponseWriter, r *http.Request) {
	p, _, deviceID, err := s.userDevicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	if err := s.svc.Devices.UnregisterDevice(r.Context(), p, deviceID); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSetNickname(w http.ResponseWriter, r *http.Request) {
	p, ownerID, deviceID, err := s.userDevicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	var req nicknameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err)
		return
	}
	if err := s.svc.Devices.SetNickname(r.Context(), p, ownerID, deviceID, req.Nickname); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteNickname(w http.ResponseWriter, r *http.Request) {
	p, ownerID, deviceID, err := s.userDevicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	if err := s.svc.Devices.DeleteNickname(r.Context(), p, ownerID, deviceID); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	p, ownerID, deviceID, err := s.userDevicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	tokens, err := s.svc.Pairing.Pair(r.Context(), p, ownerID, deviceID)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: tokens.AccessToken, ExpiresAt: tokens.ExpiresAt})
}

// handlePairAsSystem pairs on behalf of the device's registered owner.
func (s *Server) handlePairAsSystem(w http.ResponseWriter, r *http.Request) {
	p, deviceID, err := s.devicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	rd, err := s.svc.Devices.GetDevice(r.Context(), p, deviceID)
	if err != nil {
		s.error(w, err)
		return
	}
	if rd.Registration == nil {
		s.error(w, errs.IllegalState("Device", "device must be registered to operate over it"))
		return
	}
	tokens, err := s.svc.Pairing.PairAsSystem(r.Context(), p, rd.Registration.OwnerID, deviceID)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: tokens.AccessToken, ExpiresAt: tokens.ExpiresAt})
}

func (s *Server) handleStartCooking(w http.ResponseWriter, r *http.Request) {
	s.deviceAction(w, r, s.svc.Devices.StartCooking)
}

func (s *Server) handleStopCooking(w http.ResponseWriter, r *http.Request) {
	s.deviceAction(w, r, s.svc.Devices.StopCooking)
}

func (s *Server) handleUpdateTemperature(w http.ResponseWriter, r *http.Request) {
	s.temperatureAction(w, r, s.svc.Devices.UpdateTemperature)
}

func (s *Server) handleSetTargetTemperature(w http.ResponseWriter, r *http.Request) {
	s.temperatureAction(w, r, s.svc.Devices.SetTargetTemperature)
}

func (s *Server) handleClearTargetTemperature(w http.ResponseWriter, r *http.Request) {
	s.deviceAction(w, r, s.svc.Devices.ClearTargetTemperature)
}

func (s *Server) deviceAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, p model.Principal, deviceID int64) error) {
	p, deviceID, err := s.devicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	if err := action(r.Context(), p, deviceID); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) temperatureAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, p model.Principal, deviceID int64, temperature *float64) error) {
	p, deviceID, err := s.devicePath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	var req temperatureRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err)
		return
	}
	if err := action(r.Context(), p, deviceID, req.Temperature); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) devicePath(r *http.Request) (model.Principal, int64, error) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		return model.Principal{}, 0, errs.ErrUnauthorized
	}
	deviceID, err := int64Param(r, "deviceId")
	if err != nil {
		return model.Principal{}, 0, err
	}
	return p, deviceID, nil
}

func (s *Server) userDevicePath(r *http.Request) (model.Principal, uuid.UUID, int64, error) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		return model.Principal{}, uuid.Nil, 0, errs.ErrUnauthorized
	}
	ownerID, err := uuidParam(r, "userId")
	if err != nil {
		return model.Principal{}, uuid.Nil, 0, err
	}
	deviceID, err := int64Param(r, "deviceId")
	if err != nil {
		return model.Principal{}, uuid.Nil, 0, err
	}
	return p, ownerID, deviceID, nil
}
