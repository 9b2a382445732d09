package httpserver

import (
	"time"

	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createDeviceRequest struct {
	DeviceID int64 `json:"deviceId"`
}

type nicknameRequest struct {
	Nickname *string `json:"nickname"`
}

type temperatureRequest struct {
	Temperature *float64 `json:"temperature"`
}

type preferenceRequest struct {
	Name        string   `json:"name"`
	Temperature *float64 `json:"temperature"`
}

type userResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type deviceResponse struct {
	ID                    int64      `json:"id"`
	State                 string     `json:"state"`
	Temperature           *float64   `json:"temperature,omitempty"`
	LastTemperatureUpdate *time.Time `json:"lastTemperatureUpdate,omitempty"`
	TargetTemperature     *float64   `json:"targetTemperature,omitempty"`
	Nickname              *string    `json:"nickname,omitempty"`
	OwnerID               *string    `json:"userId,omitempty"`
}

type sessionResponse struct {
	JTI         string    `json:"jti"`
	CreatedAt   time.Time `json:"createdAt"`
	Blacklisted bool      `json:"blacklisted"`
}

type preferenceResponse struct {
	Name        string   `json:"name"`
	Temperature *float64 `json:"temperature,omitempty"`
}

func toUserResponse(u model.User) userResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return userResponse{ID: u.ID.String(), Username: u.Username, Roles: roles}
}

func toDeviceResponse(rd service.RegisteredDevice) deviceResponse {
	out := deviceResponse{
		ID:                    rd.Device.ID,
		State:                 string(rd.Device.State),
		Temperature:           rd.Device.Temperature,
		LastTemperatureUpdate: rd.Device.LastTemperatureUpdate,
		TargetTemperature:     rd.Device.TargetTemperature,
	}
	if rd.Registration != nil {
		out.Nickname = rd.Registration.Nickname
		owner := rd.Registration.OwnerID.String()
		out.OwnerID = &owner
	}
	return out
}

func toDeviceResponses(in []service.RegisteredDevice) []deviceResponse {
	out := make([]deviceResponse, 0, len(in))
	for _, rd := range in {
		out = append(out, toDeviceResponse(rd))
	}
	return out
}

func registeredOnly(d model.Device) service.RegisteredDevice {
	return service.RegisteredDevice{Device: d}
}

func toSessionResponse(s model.Session) sessionResponse {
	return sessionResponse{JTI: s.JTI.String(), CreatedAt: s.CreatedAt, Blacklisted: s.Blacklisted}
}

func toPreferenceResponse(p model.FoodPreference) preferenceResponse {
	return preferenceResponse{Name: p.Name, Temperature: p.Temperature}
}
