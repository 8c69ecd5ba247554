package dto

type GeoPayload struct {
	Lat *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// FinalizeRequest is the JSON body posted by the scan page once the device
// has gathered its metadata.
type FinalizeRequest struct {
	Token            string      `json:"token" validate:"required"`
	Site             string      `json:"site"`
	DeviceID         string      `json:"deviceId" validate:"omitempty,max=64"`
	UserAgent        string      `json:"userAgent"`
	Geo              *GeoPayload `json:"geo"`
	NameText         string      `json:"nameText" validate:"omitempty,max=200"`
	SignatureDataURL string      `json:"signatureDataUrl"`
	VisitReason      string      `json:"visitReason" validate:"omitempty,max=120"`
	BusinessLine     string      `json:"businessLine" validate:"omitempty,max=120"`
}

type FinalizeResponse struct {
	OK      bool   `json:"ok"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	SiteCount int    `json:"site_count"`
}
