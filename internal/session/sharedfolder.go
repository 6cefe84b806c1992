package session

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
)

type sharedFolderMessage interface {
	isSharedFolderMessage()
}

type SharedFolderUpdated struct {
	domain.SharedFolder
}

func (SharedFolderUpdated) isSharedFolderMessage() {}

func decodeSharedFolder(payload []byte) (sharedFolderMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "updated":
		return decodeAs[SharedFolderUpdated](payload)
	default:
		return nil, fmt.Errorf("%w: shared_folder.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) applySharedFolder(msg sharedFolderMessage) ([]Effect, error) {
	switch m := msg.(type) {
	case SharedFolderUpdated:
		first := !s.SharedFolder.Available && m.Available
		s.SharedFolder = m.SharedFolder
		if first {
			return []Effect{info("shared-folder", "A shared folder is now available")}, nil
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unhandled shared_folder message %T", ErrUnknownMessage, msg)
	}
}
