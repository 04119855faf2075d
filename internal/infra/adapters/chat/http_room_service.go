package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"course-subscription-platform/internal/domain/ports/adapter"
)

var _ adapter.ChatRoomAdapter = (*HTTPRoomService)(nil)

// HTTPRoomService enrolls users into course discussion rooms by calling the
// chat collaborator's internal HTTP API.
type HTTPRoomService struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRoomService(baseURL string, timeout time.Duration) *HTTPRoomService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRoomService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPRoomService) AddUserToRoom(ctx context.Context, userID, roomID string) error {
	body, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/internal/rooms/%s/members", s.baseURL, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat service returned %d", resp.StatusCode)
	}
	return nil
}
