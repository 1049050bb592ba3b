/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend is a minimal HTTP client for the photo hub API: listing
// project assets and fetching/pushing the per-asset edit payload. Pushed
// payloads are whatever the local state serializes to; fetched payloads go
// through sanitization before anything trusts them.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quickfix/internal/adjust"
)

// Client talks to the hub backend. Zero value is not usable; construct
// with NewClient.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Asset is the listing projection for one project asset.
type Asset struct {
	ID               string `json:"id"`
	LinkID           string `json:"link_id"`
	Status           string `json:"status"`
	OriginalFilename string `json:"original_filename"`
	ThumbURL         string `json:"thumb_url"`
	PreviewURL       string `json:"preview_url"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Rating           int    `json:"rating"`
	ColorLabel       string `json:"color_label"`
	Picked           bool   `json:"picked"`
	Rejected         bool   `json:"rejected"`
}

// ListAssets returns the assets linked to a project.
func (c *Client) ListAssets(ctx context.Context, projectID string) ([]Asset, error) {
	var list []Asset
	path := fmt.Sprintf("/api/projects/%s/assets", url.PathEscape(projectID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// EditsEnvelope matches the server's per-asset metadata state: the sparse
// adjustment payload plus versioning fields.
type EditsEnvelope struct {
	AssetID   string         `json:"asset_id"`
	Version   int64          `json:"version"`
	UpdatedAt string         `json:"updated_at"`
	Edits     map[string]any `json:"edits"`
}

// GetEdits fetches the stored edit payload for an asset. A missing or
// empty payload is returned as an empty envelope, not an error.
func (c *Client) GetEdits(ctx context.Context, assetID string) (*EditsEnvelope, error) {
	var env EditsEnvelope
	path := fmt.Sprintf("/api/assets/%s/edits", url.PathEscape(assetID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// GetState fetches the asset's edits and sanitizes them into a valid
// adjustment state. Server garbage degrades to defaults, never to an
// error from this path.
func (c *Client) GetState(ctx context.Context, assetID string) (adjust.State, *EditsEnvelope, error) {
	env, err := c.GetEdits(ctx, assetID)
	if err != nil {
		return adjust.Default(), nil, err
	}
	return adjust.Sanitize(env.Edits), env, nil
}

// PushEdits uploads the sparse adjustment payload for an asset and
// returns the server's resulting envelope.
func (c *Client) PushEdits(ctx context.Context, assetID string, payload map[string]any) (*EditsEnvelope, error) {
	var env EditsEnvelope
	path := fmt.Sprintf("/api/assets/%s/edits", url.PathEscape(assetID))
	if err := c.doJSON(ctx, http.MethodPut, path, payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PushState serializes the state to its sparse payload and uploads it.
func (c *Client) PushState(ctx context.Context, assetID string, s adjust.State) (*EditsEnvelope, error) {
	return c.PushEdits(ctx, assetID, adjust.ToPayload(s))
}

// Interaction updates rating, color label and pick flags for a set of
// assets. Nil fields are left untouched server-side.
type Interaction struct {
	AssetIDs   []string `json:"asset_ids"`
	Rating     *int     `json:"rating,omitempty"`
	ColorLabel *string  `json:"color_label,omitempty"`
	Picked     *bool    `json:"picked,omitempty"`
	Rejected   *bool    `json:"rejected,omitempty"`
}

// UpdateInteraction applies the interaction update.
func (c *Client) UpdateInteraction(ctx context.Context, upd Interaction) ([]Asset, error) {
	var out struct {
		Items []Asset `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/assets/interactions", upd, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
