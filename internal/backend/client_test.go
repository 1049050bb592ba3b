/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quickfix/internal/adjust"
)

func TestGetStateSanitizesServerPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/assets/abc/edits" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"asset_id": "abc",
			"version":  3,
			"edits": map[string]any{
				"exposure": map[string]any{"exposure": 99, "contrast": 1.4},
				"grain":    map[string]any{"amount": 0.3, "size": "boulder"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	st, env, err := c.GetState(context.Background(), "abc")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if env.Version != 3 {
		t.Fatalf("version lost: %d", env.Version)
	}
	// Out-of-range exposure falls back; the valid contrast survives.
	if st.Exposure.Exposure != 0 {
		t.Fatalf("out-of-range exposure must default, got %v", st.Exposure.Exposure)
	}
	if st.Exposure.Contrast != 1.4 {
		t.Fatalf("valid contrast lost: %v", st.Exposure.Contrast)
	}
	if st.Grain.Size != adjust.GrainMedium || st.Grain.Amount != 0.3 {
		t.Fatalf("grain sanitization wrong: %+v", st.Grain)
	}
}

func TestPushStateSendsSparsePayload(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"asset_id": "abc", "version": 4})
	}))
	defer srv.Close()

	s := adjust.Default()
	s.Exposure.Exposure = 1.5
	c := NewClient(srv.URL, "")
	env, err := c.PushState(context.Background(), "abc", s)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if env.Version != 4 {
		t.Fatalf("version: %d", env.Version)
	}
	if _, ok := body["exposure"]; !ok {
		t.Fatalf("edited group missing from pushed payload: %v", body)
	}
	if _, ok := body["grain"]; ok {
		t.Fatalf("untouched group leaked into pushed payload: %v", body)
	}
}

func TestListAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/p1/assets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "a1", "original_filename": "one.jpg", "rating": 4, "picked": true},
			{"id": "a2", "original_filename": "two.jpg"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	assets, err := c.ListAssets(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assets) != 2 || assets[0].Rating != 4 || !assets[0].Picked {
		t.Fatalf("unexpected assets: %+v", assets)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.GetEdits(context.Background(), "abc"); err == nil {
		t.Fatalf("5xx must surface as an error")
	}
}
