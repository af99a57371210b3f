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

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfimages/colorspace"
	"seehuhn.de/go/pdfimages/composite"
	"seehuhn.de/go/pdfimages/extract"
	"seehuhn.de/go/pdfimages/internal/debug"
	"seehuhn.de/go/pdfimages/tools/internal/buildinfo"
	"seehuhn.de/go/pdfimages/tools/internal/profile"
)

const toolName = "pdf-images"

// config holds all command-line flag values.
type config struct {
	pages       intList
	pageRange   rangeFlag
	image       string
	bg          intList
	list        bool
	debug       bool
	interactive bool
	outDir      string
	force       bool
	quality     int
	legacyCMYK  bool
	gray        bool
	iccProfile  bool
	password    string
}

// usageError is returned by run for problems with the command line.
type usageError struct {
	err error
}

func (err usageError) Error() string {
	return err.err.Error()
}

func (err usageError) Unwrap() error {
	return err.err
}

func main() {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	var cfg config
	flag.Var(&cfg.pages, "p", "shorthand for -pages")
	flag.Var(&cfg.pages, "pages", "1-based page `numbers`, comma separated or repeated")
	flag.Var(&cfg.pageRange, "r", "shorthand for -page-range")
	flag.Var(&cfg.pageRange, "page-range", "inclusive page `range` A-B")
	flag.StringVar(&cfg.image, "i", "", "shorthand for -image")
	flag.StringVar(&cfg.image, "image", "", "extract only the image XObject with this `name`")
	flag.Var(&cfg.bg, "b", "shorthand for -bg")
	flag.Var(&cfg.bg, "bg", "background `color` for masked images: gray, R,G,B or R,G,B,A (0-255)")
	flag.BoolVar(&cfg.list, "list", false, "list the images instead of extracting them")
	flag.BoolVar(&cfg.debug, "debug", false, "print diagnostic information and write preview images")
	flag.BoolVar(&cfg.interactive, "interactive", false, "ask before saving each image")
	flag.StringVar(&cfg.outDir, "o", ".", "output `directory`")
	flag.BoolVar(&cfg.force, "f", false, "overwrite existing output files")
	flag.IntVar(&cfg.quality, "q", extract.DefaultJPEGQuality, "JPEG `quality` (1-100)")
	flag.BoolVar(&cfg.legacyCMYK, "legacy-cmyk", false, "decode DeviceCMYK images like unknown color spaces")
	flag.BoolVar(&cfg.gray, "gray", false, "decode DeviceGray images as gray")
	flag.BoolVar(&cfg.iccProfile, "icc-profile", false, "use the ICC profile header if /Alternate is missing")
	flag.StringVar(&cfg.password, "password", "", "`password` for encrypted files")
	version := flag.Bool("version", false, "print version information and exit")
	help := flag.Bool("help", false, "show help information")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "%s - extract images from a PDF file\n", toolName)
		fmt.Fprintf(out, "%s\n\n", buildinfo.Short(toolName))
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  %s [options] <file.pdf>\n\n", toolName)
		fmt.Fprintf(out, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nOutput files are named Page_<page>_<name>.<ext>.\n")
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  %s -list doc.pdf\n", toolName)
		fmt.Fprintf(out, "  %s -p 1,3 -p 7 -o out doc.pdf\n", toolName)
		fmt.Fprintf(out, "  %s -r 2-5 -b 255 doc.pdf\n", toolName)
		fmt.Fprintf(out, "  %s -i Im1 -b 255,255,255,128 -interactive doc.pdf\n", toolName)
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}
	if *version {
		fmt.Println(buildinfo.Short(toolName))
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	err := run(flag.Arg(0), cfg, *cpuprofile, *memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.As(err, &usageError{}) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(fname string, cfg config, cpuprofile, memprofile string) (err error) {
	stop, err := profile.Start(cpuprofile, memprofile)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stop(); err == nil {
			err = stopErr
		}
	}()

	bg, err := composite.Background(cfg.bg)
	if err != nil {
		return usageError{err}
	}
	if cfg.quality < 1 || cfg.quality > 100 {
		return usageError{fmt.Errorf("invalid JPEG quality %d", cfg.quality)}
	}

	policy := colorspace.DefaultPolicy
	if cfg.legacyCMYK {
		policy = colorspace.LegacyPolicy
	}
	policy.Gray = cfg.gray
	policy.UseProfile = cfg.iccProfile

	opt := &pdf.ReaderOptions{
		ReadPassword: passwordFunc(cfg.password),
	}
	doc, err := pdf.Open(fname, opt)
	if err != nil {
		return &extract.InputError{File: fname, Err: err}
	}
	defer doc.Close()

	numPages, err := pagetree.NumPages(doc)
	if err != nil {
		return &extract.InputError{File: fname, Err: err}
	}
	pages, err := extract.SelectPages(cfg.pages, cfg.pageRange.r, numPages)
	if err != nil {
		return usageError{err}
	}

	ecfg := &extract.Config{
		Pages:       pages,
		Image:       pdf.Name(cfg.image),
		Background:  bg,
		Policy:      policy,
		OutDir:      cfg.outDir,
		Force:       cfg.force,
		JPEGQuality: cfg.quality,
		Debug:       cfg.debug,
		Interactive: cfg.interactive,
		Stdout:      os.Stdout,
		Log:         log.New(os.Stderr, toolName+": ", 0),
	}
	if !cfg.list && !cfg.interactive {
		ecfg.Progress = os.Stderr
	}
	if !cfg.list && (cfg.debug || cfg.interactive) {
		dir, err := os.MkdirTemp("", toolName+"-")
		if err != nil {
			return err
		}
		if !cfg.debug {
			defer os.RemoveAll(dir)
		}
		ecfg.Viewer = &debug.Preview{Dir: dir, MaxSize: 1024, Out: os.Stderr}
	}

	ex, err := extract.New(doc, ecfg)
	if err != nil {
		return err
	}

	if cfg.list {
		extract.PrintList(os.Stdout, ex.List(), len(ex.Pages()))
		return nil
	}

	s, err := ex.Extract()
	if err != nil {
		return err
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stderr, "extracted %d of %d images from %d pages", len(s.Files), s.Images, s.Pages)
	if s.Failed > 0 {
		p.Fprintf(os.Stderr, ", %d failed", s.Failed)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// passwordFunc returns the password callback for the PDF reader.  The
// password given on the command line is tried first.  After that, the
// user is asked for a password if standard input is a terminal.
func passwordFunc(password string) func([]byte, int) string {
	return func(_ []byte, try int) string {
		if password != "" {
			if try == 0 {
				return password
			}
			try--
		}
		fd := int(os.Stdin.Fd())
		if try >= 3 || !term.IsTerminal(fd) {
			return ""
		}
		fmt.Fprint(os.Stderr, "password: ")
		passwd, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return string(passwd)
	}
}
