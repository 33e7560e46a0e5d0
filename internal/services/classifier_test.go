package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		intent        string
		risk          float64
		mentionsMoney bool
	}{
		{"legal keyword", "my attorney will contact you", IntentLegal, 0.95, false},
		{"complaint keyword", "this is a complaint about bad service", IntentComplaint, 0.80, false},
		{"booking keyword", "can I book an appointment", IntentBooking, 0.25, false},
		{"money mention", "how much does a tune-up cost", IntentPricingBasic, 0.55, true},
		{"hours keyword", "what are your hours", IntentHours, 0.15, false},
		{"services phrasing", "do you offer gutter cleaning", IntentServices, 0.15, false},
		{"status keyword", "any update on my order", IntentStatus, 0.15, false},
		{"no match", "hello there", IntentDefault, 0.15, false},
		{"dollar sign counts as money", "is it under $100", IntentPricingBasic, 0.55, true},
		{"uppercase input", "WHAT ARE YOUR HOURS", IntentHours, 0.15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyIntent(tt.text)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.risk, got.Risk)
			assert.Equal(t, tt.mentionsMoney, got.MentionsMoney)
		})
	}
}

func TestClassifyIntentPriorityOrder(t *testing.T) {
	// Legal wins over complaint even when both key sets match.
	got := ClassifyIntent("I have a complaint and my attorney agrees")
	assert.Equal(t, IntentLegal, got.Intent)
	assert.Equal(t, 0.95, got.Risk)

	// Complaint wins over booking.
	got = ClassifyIntent("I want to book but I am angry about last time")
	assert.Equal(t, IntentComplaint, got.Intent)

	// Booking wins over a money mention, but the flag survives.
	got = ClassifyIntent("can I schedule something and how much is it")
	assert.Equal(t, IntentBooking, got.Intent)
	assert.True(t, got.MentionsMoney)
	assert.Equal(t, 0.55, got.Risk)
}

func TestClassifyIntentDeterminism(t *testing.T) {
	text := "refund please, where is my order"
	first := ClassifyIntent(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyIntent(text))
	}
}

func TestIntentConfidence(t *testing.T) {
	assert.Equal(t, 0.82, IntentConfidence(IntentHours))
	assert.Equal(t, 0.82, IntentConfidence(IntentServices))
	assert.Equal(t, 0.82, IntentConfidence(IntentBooking))
	assert.Equal(t, 0.82, IntentConfidence(IntentStatus))
	assert.Equal(t, 0.82, IntentConfidence(IntentPricingBasic))
	assert.Equal(t, 0.72, IntentConfidence(IntentComplaint))
	assert.Equal(t, 0.55, IntentConfidence(IntentLegal))
	assert.Equal(t, 0.62, IntentConfidence(IntentDefault))
	assert.Equal(t, 0.62, IntentConfidence(IntentFollowUp))
}
