package dto

import "time"

type RegisterTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
	DeviceID string `json:"deviceId"`
}

type SendToUserRequest struct {
	UserID string         `json:"userId" binding:"required"`
	Title  string         `json:"title" binding:"required"`
	Body   string         `json:"body" binding:"required"`
	Data   map[string]any `json:"data"`
}

type SendToUsersRequest struct {
	UserIDs []string       `json:"userIds" binding:"required,min=1"`
	Title   string         `json:"title" binding:"required"`
	Body    string         `json:"body" binding:"required"`
	Data    map[string]any `json:"data"`
}

type BroadcastRequest struct {
	Title string         `json:"title" binding:"required"`
	Body  string         `json:"body" binding:"required"`
	Data  map[string]any `json:"data"`
}

// Device is the caller-safe projection of a registration: the full token
// is never returned, only a truncated preview.
type Device struct {
	DeviceID     string    `json:"deviceId"`
	Platform     string    `json:"platform"`
	CreatedAt    time.Time `json:"createdAt"`
	LastUsed     time.Time `json:"lastUsed"`
	TokenPreview string    `json:"tokenPreview"`
}

// SendResult aggregates delivery outcomes across all provider batches.
// DeviceCount and UserCount describe the resolved target, not outcomes.
type SendResult struct {
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
	DeviceCount  int `json:"-"`
	UserCount    int `json:"-"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SendResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  *SendResult `json:"result"`
}

type DevicesResponse struct {
	Success bool     `json:"success"`
	Devices []Device `json:"devices"`
	Count   int      `json:"count"`
}
