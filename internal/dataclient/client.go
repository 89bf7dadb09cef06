// Package dataclient implements the scheduling service's outbound HTTP
// call to the data service's resolved-membership endpoint, grounded on
// the teacher's internal/scheduler.Executor and the original Rust
// infrastructure/http_client.rs DataServiceClient.
package dataclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/requestid"
)

type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DialContext: (&net.Dialer{
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
		logger: logger.With("component", "dataclient"),
	}
}

type resolvedMembersResponse struct {
	Data []struct {
		GroupID   string         `json:"group_id"`
		GroupName string         `json:"group_name"`
		Members   []domain.Staff `json:"members"`
	} `json:"data"`
	Total int `json:"total"`
}

// GetResolvedMembers calls the data service's resolved-members endpoint
// for groupID and flattens the grouped response into a single
// de-duplicated, ACTIVE-only staff slice ordered by (group_name,
// staff_name), matching the order the resolver itself emits members in.
func (c *Client) GetResolvedMembers(ctx context.Context, groupID string) ([]domain.Staff, error) {
	url := fmt.Sprintf("%s/api/v1/groups/%s/resolved-members", c.baseURL, groupID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.ExternalServiceError("build resolved-members request", err)
	}

	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = requestid.New()
	}
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "resolved-members request failed", "group_id", groupID, "error", err)
		return nil, domain.ExternalServiceError("call data service", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NotFound(domain.ErrGroupNotFound.Error())
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, domain.ExternalServiceError("call data service", fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var decoded resolvedMembersResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, domain.ExternalServiceError("decode resolved-members response", err)
	}

	c.logger.InfoContext(ctx, "resolved members fetched",
		"group_id", groupID, "group_count", len(decoded.Data), "total", decoded.Total,
		"duration", time.Since(start))

	sort.Slice(decoded.Data, func(i, j int) bool { return decoded.Data[i].GroupName < decoded.Data[j].GroupName })

	seen := make(map[string]struct{}, decoded.Total)
	result := make([]domain.Staff, 0, decoded.Total)
	for _, group := range decoded.Data {
		members := append([]domain.Staff(nil), group.Members...)
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		for _, staff := range members {
			if staff.Status != domain.StaffActive {
				continue
			}
			if _, ok := seen[staff.ID]; ok {
				continue
			}
			seen[staff.ID] = struct{}{}
			result = append(result, staff)
		}
	}

	return result, nil
}
