// Package ingest sends consultation records to the VOC ingestion API.
package ingest

import (
	"fmt"

	"github.com/christopherklint97/vocseed/internal/record"
)

// Endpoint names the API route records are posted to.
type Endpoint string

const (
	EndpointSaveConversation Endpoint = "save-conversation"
	EndpointEnhancedClassify Endpoint = "enhanced-classify"
)

// ParseEndpoint validates an endpoint name.
func ParseEndpoint(s string) (Endpoint, error) {
	switch e := Endpoint(s); e {
	case EndpointSaveConversation, EndpointEnhancedClassify:
		return e, nil
	case "":
		return EndpointSaveConversation, nil
	}
	return "", fmt.Errorf("unknown endpoint %q (use %s or %s)", s, EndpointSaveConversation, EndpointEnhancedClassify)
}

const (
	DefaultDate = "2025-09-07"
	DefaultTime = "12:00"
)

// Payload is a request body for one record.
type Payload interface {
	ID() string
}

// VocPayload is the save-conversation body.
type VocPayload struct {
	SourceID          string      `json:"source_id"`
	ConsultingContent string      `json:"consulting_content"`
	ConsultingDate    string      `json:"consulting_date"`
	ConsultingTime    string      `json:"consulting_time"`
	Metadata          VocMetadata `json:"metadata"`
}

type VocMetadata struct {
	ConsultingTurns  string `json:"consulting_turns"`
	ConsultingLength int    `json:"consulting_length"`
}

func (p VocPayload) ID() string { return p.SourceID }

// ClassifyPayload is the enhanced-classify body.
type ClassifyPayload struct {
	SourceID          string `json:"source_id"`
	ConsultingContent string `json:"consulting_content"`
	ConsultingDate    string `json:"consulting_date"`
	ConsultingTime    string `json:"consulting_time"`
	ClientGender      string `json:"client_gender"`
	ClientAge         string `json:"client_age"`
	ConsultingTurns   int    `json:"consulting_turns"`
	ConsultingLength  int    `json:"consulting_length"`
}

func (p ClassifyPayload) ID() string { return p.SourceID }

// BuildPayload converts a record to the body expected by endpoint.
func BuildPayload(endpoint Endpoint, r record.Record) Payload {
	if endpoint == EndpointEnhancedClassify {
		return ClassifyPayload{
			SourceID:          r.SourceID(),
			ConsultingContent: r.String(record.FieldContent, ""),
			ConsultingDate:    r.String(record.FieldDate, ""),
			ConsultingTime:    r.String(record.FieldTime, ""),
			ClientGender:      r.String(record.FieldGender, ""),
			ClientAge:         r.String(record.FieldAge, ""),
			ConsultingTurns:   r.Int(record.FieldTurns, 0),
			ConsultingLength:  r.Int(record.FieldLength, 0),
		}
	}
	return VocPayload{
		SourceID:          r.SourceID(),
		ConsultingContent: r.String(record.FieldContent, ""),
		ConsultingDate:    r.String(record.FieldDate, DefaultDate),
		ConsultingTime:    r.String(record.FieldTime, DefaultTime),
		Metadata: VocMetadata{
			ConsultingTurns:  r.String(record.FieldTurns, "0"),
			ConsultingLength: r.Int(record.FieldLength, 0),
		},
	}
}

// Endpoint returns the route the client posts to.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}
