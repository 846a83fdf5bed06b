package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/session"
	"github.com/gogpu/graphcalc/viewport"
)

// sessionFlags selects the session a command works on. A YAML file or a
// blob is the base; -e lines, presets and --param values are added to it.
type sessionFlags struct {
	exprs   []string
	file    string
	blob    string
	presets []string
	params  map[string]string
	view    []float64
	theme   string
}

func (f *sessionFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.exprs, "expr", "e", nil, "expression line (repeatable)")
	fl.StringVarP(&f.file, "file", "f", "", "YAML session file")
	fl.StringVar(&f.blob, "blob", "", "share blob")
	fl.StringArrayVar(&f.presets, "preset", nil, "add a built-in preset (repeatable)")
	fl.StringToStringVar(&f.params, "param", nil, "parameter values, e.g. a=2,b=-1")
	fl.Float64SliceVar(&f.view, "view", nil, "viewport as xmin,xmax,ymin,ymax")
	fl.StringVar(&f.theme, "theme", "", "light or dark")
}

// load builds the session. Problems in a blob are reported to warn and
// the readable part is kept.
func (f *sessionFlags) load(warn io.Writer) (*session.Session, error) {
	if f.file != "" && f.blob != "" {
		return nil, errors.New("--file and --blob are exclusive")
	}
	var sess *session.Session
	switch {
	case f.file != "":
		s, err := session.LoadYAMLFile(f.file)
		if err != nil {
			return nil, err
		}
		sess = s
	case f.blob != "":
		s, err := session.DecodeStrict(f.blob)
		if err != nil {
			fmt.Fprintf(warn, "warning: %v\n", err)
		}
		sess = s
	default:
		sess = session.New()
	}
	return f.apply(sess)
}

// apply adds the flag-given lines and settings to sess.
func (f *sessionFlags) apply(sess *session.Session) (*session.Session, error) {
	for _, name := range f.presets {
		if _, err := sess.AddPreset(name); err != nil {
			return nil, err
		}
	}
	for _, src := range f.exprs {
		sess.Add(src)
	}
	values, err := parseParams(f.params)
	if err != nil {
		return nil, err
	}
	for name, v := range values {
		sess.SetParam(name, v)
	}
	if len(f.view) > 0 {
		if len(f.view) != 4 {
			return nil, fmt.Errorf("--view takes 4 numbers, got %d", len(f.view))
		}
		vp := viewport.Viewport{XMin: f.view[0], XMax: f.view[1], YMin: f.view[2], YMax: f.view[3]}
		if err := vp.Validate(); err != nil {
			return nil, err
		}
		sess.Viewport = vp
	}
	switch f.theme {
	case "":
	case session.ThemeLight, session.ThemeDark:
		sess.Theme = f.theme
	default:
		return nil, fmt.Errorf("unknown theme %q", f.theme)
	}
	return sess.Normalize(), nil
}
