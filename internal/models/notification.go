// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package models

import "time"

// Notification kinds.
const (
	NotificationWelcome          = "welcome"
	NotificationFeedbackReceived = "feedback_received"
)

// Notification is a per-user message produced by background event
// handlers and read back over the API.
type Notification struct {
	ID     string `json:"id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
	Kind   string `json:"kind" validate:"required"`

	Message string `json:"message"`

	// ItemID links the notification to a catalog item when one is
	// involved, such as a feedback acknowledgement.
	ItemID string `json:"item_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
