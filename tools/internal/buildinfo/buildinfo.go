// seehuhn.de/go/pdfimages - extract images from PDF files
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

// Package buildinfo reports the version of the command line tools.
package buildinfo

import (
	"runtime/debug"
)

// Info describes the build of a tool.
type Info struct {
	Tool    string
	Module  string
	Version string

	// Revision is the abbreviated VCS revision.  It is only set for
	// development builds.
	Revision string
	Dirty    bool
}

// Read returns the build information for the named tool.
func Read(toolName string) Info {
	res := Info{Tool: toolName}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return res
	}
	res.Module = info.Main.Path

	if v := info.Main.Version; v != "" && v != "(devel)" {
		res.Version = v
		return res
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			res.Revision = s.Value
		case "vcs.modified":
			res.Dirty = s.Value == "true"
		}
	}
	if len(res.Revision) > 8 {
		res.Revision = res.Revision[:8]
	}
	return res
}

// String returns a short version string, for example
// "pdf-images (seehuhn.de/go/pdfimages v0.1.0)".
func (i Info) String() string {
	v := i.Version
	if v == "" && i.Revision != "" {
		v = i.Revision
		if i.Dirty {
			v += "+dirty"
		}
	}
	if v == "" || i.Module == "" {
		return i.Tool
	}
	return i.Tool + " (" + i.Module + " " + v + ")"
}

// Short is a shorthand for Read(toolName).String().
func Short(toolName string) string {
	return Read(toolName).String()
}
