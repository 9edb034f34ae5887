package model

import (
	"encoding/json"
	"testing"
)

func TestStatusConstants(t *testing.T) {
	statuses := []string{string(PaymentPending), string(PaymentCompleted), string(PaymentFailed)}
	expected := []string{"pending", "completed", "failed"}

	for i, status := range statuses {
		if status != expected[i] {
			t.Errorf("Expected '%s', got '%s'", expected[i], status)
		}
	}
}

func TestStatusRejectsForeignCategory(t *testing.T) {
	var p Payment
	if err := json.Unmarshal([]byte(`{"id":"PAY009","status":"signed"}`), &p); err == nil {
		t.Error("Expected payment to reject contract status 'signed'")
	}

	var c Contract
	if err := json.Unmarshal([]byte(`{"id":"CTR009","status":"signed"}`), &c); err != nil {
		t.Errorf("Expected contract to accept 'signed', got %v", err)
	}

	var d Document
	if err := json.Unmarshal([]byte(`{"id":"9","status":"completed"}`), &d); err == nil {
		t.Error("Expected document to reject 'completed'")
	}
}

func TestApplicationStatusTerminal(t *testing.T) {
	if ApplicationPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !ApplicationApproved.Terminal() || !ApplicationRejected.Terminal() {
		t.Error("approved and rejected must be terminal")
	}
}

func TestBadgeTone(t *testing.T) {
	tests := []struct {
		status BadgeStatus
		tone   Tone
	}{
		{BadgeApproved, ToneSuccess},
		{BadgeSigned, ToneSuccess},
		{BadgePending, ToneWarning},
		{BadgeFailed, ToneDestructive},
		{BadgeInactive, ToneDestructive},
		{BadgeDraft, ToneMuted},
	}
	for _, tt := range tests {
		if got := tt.status.Tone(); got != tt.tone {
			t.Errorf("%s: expected tone %s, got %s", tt.status, tt.tone, got)
		}
	}
}
