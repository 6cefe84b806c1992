package session

import (
	"encoding/json"
	"fmt"
)

type whiteboardMessage interface {
	isWhiteboardMessage()
}

type WhiteboardSpaceURL struct {
	URL string `json:"url"`
}

type WhiteboardPDFAsset struct {
	AssetID string `json:"asset_id"`
}

type WhiteboardError struct {
	Error string `json:"error"`
}

func (WhiteboardSpaceURL) isWhiteboardMessage() {}
func (WhiteboardPDFAsset) isWhiteboardMessage() {}
func (WhiteboardError) isWhiteboardMessage()    {}

func decodeWhiteboard(payload []byte) (whiteboardMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "space_url":
		return decodeAs[WhiteboardSpaceURL](payload)
	case "pdf_asset":
		return decodeAs[WhiteboardPDFAsset](payload)
	case "error":
		return decodeAs[WhiteboardError](payload)
	default:
		return nil, fmt.Errorf("%w: whiteboard.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) applyWhiteboard(msg whiteboardMessage) ([]Effect, error) {
	switch m := msg.(type) {
	case WhiteboardSpaceURL:
		first := !s.Whiteboard.Available
		s.Whiteboard.Available = true
		s.Whiteboard.SpaceURL = m.URL
		if first {
			return []Effect{info("whiteboard", "A whiteboard is now available")}, nil
		}
		return nil, nil

	case WhiteboardPDFAsset:
		s.Whiteboard.PDFAssets = append(s.Whiteboard.PDFAssets, m.AssetID)
		return []Effect{info("whiteboard", "The whiteboard was exported as PDF")}, nil

	case WhiteboardError:
		return []Effect{warning("whiteboard", "Whiteboard error: "+m.Error)}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled whiteboard message %T", ErrUnknownMessage, msg)
	}
}
