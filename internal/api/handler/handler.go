package handler

import (
	"civiceye/backend/internal/auth"
	"civiceye/backend/internal/complaint"
	"civiceye/backend/internal/storage"
)

// Handler містить посилання на сервіс скарг та сховище
type Handler struct {
	Complaints *complaint.Service
	Storage    storage.Storage

	// Tokens verifies Bearer tokens on per-user listings. When nil, any
	// caller may list any user's complaints.
	Tokens *auth.Tokens
}

func NewHandler(complaints *complaint.Service, s storage.Storage) *Handler {
	return &Handler{Complaints: complaints, Storage: s}
}
