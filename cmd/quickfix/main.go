/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	"quickfix/internal/adjust"
	"quickfix/internal/config"
	"quickfix/internal/crash"
	"quickfix/internal/export"
	applog "quickfix/internal/log"
	"quickfix/internal/preset"
	"quickfix/internal/render"
	"quickfix/internal/version"
)

func usage() {
	fmt.Println("QuickFix — non-destructive photo adjustments")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  quickfix version|-v|--version               Show version")
	fmt.Println("  quickfix sanitize <edits.json>              Sanitize an edit payload and print the result")
	fmt.Println("  quickfix render <in> <out> <edits.json>     Apply an edit payload to an image")
	fmt.Println("  quickfix preset list                        List saved export presets")
	fmt.Println("  quickfix preset save <name> [long-edge]     Save an export preset")
	fmt.Println("  quickfix preset delete <id>                 Delete an export preset")
	fmt.Println("  quickfix contact-sheet <out.pdf> <img>...   Build a contact sheet PDF")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover("", nil)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "sanitize":
		cmdSanitize(l, args[2:])
	case "render":
		cmdRender(l, args[2:])
	case "preset":
		cmdPreset(l, args[2:])
	case "contact-sheet":
		cmdContactSheet(l, args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

// cmdSanitize reads an untrusted payload and prints the sparse payload of
// the sanitized state. Unreadable input degrades to the default state.
func cmdSanitize(l *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Println("sanitize requires <edits.json>")
		usage()
		os.Exit(2)
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		fail(l, "read payload failed", err)
	}
	s := adjust.SanitizeJSON(raw)
	out, err := adjust.PayloadJSON(s)
	if err != nil {
		fail(l, "encode payload failed", err)
	}
	fmt.Println(string(out))
}

func cmdRender(l *slog.Logger, args []string) {
	if len(args) < 3 {
		fmt.Println("render requires <in> <out> <edits.json>")
		usage()
		os.Exit(2)
	}
	in, out, editsPath := args[0], args[1], args[2]
	raw, err := os.ReadFile(editsPath)
	if err != nil {
		fail(l, "read payload failed", err)
	}
	state := adjust.SanitizeJSON(raw)

	img, err := imaging.Open(in)
	if err != nil {
		fail(l, "open image failed", err)
	}
	l.Info("render", slog.String("in", in), slog.String("out", out))
	result := render.Apply(img, state, render.Options{})

	s := export.DefaultSettings()
	switch filepath.Ext(out) {
	case ".png":
		s.Format = export.FormatPNG
	case ".tif", ".tiff":
		s.Format = export.FormatTIFF
	}
	if err := export.WriteImage(out, result, s); err != nil {
		fail(l, "write image failed", err)
	}
	fmt.Println("Wrote", out)
}

func openPresetStore(l *slog.Logger) *preset.SQLiteStore {
	cfg, _, err := config.Load()
	if err != nil {
		fail(l, "load config failed", err)
	}
	path, err := config.PresetDBPath(cfg)
	if err != nil {
		fail(l, "resolve preset db failed", err)
	}
	st, err := preset.OpenSQLite(path)
	if err != nil {
		fail(l, "open preset store failed", err)
	}
	return st
}

func cmdPreset(l *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Println("preset requires a subcommand: list, save, delete")
		usage()
		os.Exit(2)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st := openPresetStore(l)
	defer st.Close()

	switch args[0] {
	case "list":
		list, err := st.List(ctx)
		if err != nil {
			fail(l, "list presets failed", err)
		}
		if len(list) == 0 {
			fmt.Println("No presets saved.")
			return
		}
		for _, p := range list {
			fmt.Printf("%4d  %-20s  %s", p.ID, p.Name, p.Settings.Format)
			if p.Settings.SizeMode == export.SizeResize {
				fmt.Printf("  long edge %dpx", p.Settings.LongEdge)
			}
			fmt.Println()
		}
	case "save":
		if len(args) < 2 {
			fmt.Println("preset save requires <name>")
			os.Exit(2)
		}
		s := export.DefaultSettings()
		if len(args) >= 3 {
			edge, err := strconv.Atoi(args[2])
			if err != nil {
				fail(l, "parse long edge failed", err)
			}
			s.SizeMode = export.SizeResize
			s.LongEdge = edge
		}
		s = export.Normalize(s)
		if err := export.Validate(s); err != nil {
			fail(l, "invalid export settings", err)
		}
		p, err := st.Save(ctx, preset.Preset{Name: args[1], Settings: s})
		if err != nil {
			fail(l, "save preset failed", err)
		}
		fmt.Printf("Saved preset %q (id %d)\n", p.Name, p.ID)
	case "delete":
		if len(args) < 2 {
			fmt.Println("preset delete requires <id>")
			os.Exit(2)
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fail(l, "parse id failed", err)
		}
		if err := st.Delete(ctx, id); err != nil {
			fail(l, "delete preset failed", err)
		}
		fmt.Println("Deleted preset", id)
	default:
		fmt.Println("unknown preset subcommand:", args[0])
		os.Exit(2)
	}
}

func cmdContactSheet(l *slog.Logger, args []string) {
	if len(args) < 2 {
		fmt.Println("contact-sheet requires <out.pdf> and at least one image")
		usage()
		os.Exit(2)
	}
	out := args[0]
	var items []export.SheetItem
	for _, path := range args[1:] {
		img, err := imaging.Open(path)
		if err != nil {
			fail(l, "open image failed", err)
		}
		items = append(items, export.SheetItem{Image: img, Caption: filepath.Base(path)})
	}
	s := export.DefaultSettings()
	s.SheetFormat = export.SheetPDF
	if err := export.WriteContactSheet(out, items, s, export.SheetOptions{Title: "QuickFix contact sheet"}); err != nil {
		fail(l, "write contact sheet failed", err)
	}
	fmt.Println("Wrote", out)
}
