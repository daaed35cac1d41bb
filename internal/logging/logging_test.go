// seehuhn.de/go/jigsaw - cut images into interlocking jigsaw pieces
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestFileLog(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "jigsaw.log")
	log := New(false, fname)
	log.Info("cutting image", zap.Int("rows", 3))
	log.Debug("not written at info level")
	_ = log.Sync()

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("%d log lines, want 1:\n%s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatal(err)
	}
	if entry["message"] != "cutting image" || entry["level"] != "info" || entry["rows"] != 3.0 {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestDevLogLevel(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "dev.log")
	log := New(true, fname)
	log.Debug("cell done")
	_ = log.Sync()

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"level":"debug"`)) {
		t.Errorf("debug entry missing from %q", data)
	}
}
