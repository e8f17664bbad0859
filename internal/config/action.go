package config

import (
	"fmt"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvKeyMap customizes the variable names a child process sees for each
// Env field (spec §4.H); a zero value for any field means "use the
// default name".
type EnvKeyMap struct {
	Channel   string `yaml:"channel,omitempty"`
	ID        string `yaml:"id,omitempty"`
	RawValue  string `yaml:"rawvalue,omitempty"`
	Value     string `yaml:"value,omitempty"`
	Raw       string `yaml:"raw,omitempty"`
	Timestamp string `yaml:"timestamp,omitempty"`
}

type envKeyMapYAML struct {
	Channel   string `yaml:"channel"`
	ID        string `yaml:"id"`
	RawValue  string `yaml:"rawvalue"`
	Value     string `yaml:"value"`
	Raw       string `yaml:"raw"`
	Timestamp string `yaml:"timestamp"`
}

// UnmarshalYAML decodes one envconf mapping, rejecting any key outside the
// six renameable Env fields (spec §6 "Unknown fields anywhere").
func (e *EnvKeyMap) UnmarshalYAML(value *yaml.Node) error {
	if err := strictKeys(value, "channel", "id", "rawvalue", "value", "raw", "timestamp"); err != nil {
		return err
	}

	var raw envKeyMapYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	*e = EnvKeyMap(raw)

	return nil
}

// ActionSpec is one "run" entry: either an argv vector or a shell command
// string, with optional detach and env-var renaming (spec §3, §6).
type ActionSpec struct {
	Args    []string
	EnvKeys *EnvKeyMap
	Detach  bool

	// Pty attaches the child (detached or not) to a pseudo-terminal instead
	// of inheriting stdio, so interactive/color-aware CLI tools behave as they
	// would in a real shell. Supplemental field, see SPEC_FULL.md.
	Pty bool
}

type actionSpecYAML struct {
	Args    []string   `yaml:"args"`
	Cmd     *string    `yaml:"cmd"`
	EnvConf *EnvKeyMap `yaml:"envconf"`
	Detach  *bool      `yaml:"detach"`
	Pty     *bool      `yaml:"pty"`
}

// CrossShell wraps a shell command the way the platform expects: "sh -c
// ..." on POSIX, "cmd /C ..." on Windows (spec §3).
func CrossShell(cmd string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", cmd}
	}

	return []string{"sh", "-c", cmd}
}

// UnmarshalYAML decodes one action entry, enforcing that exactly one of
// args/cmd is present (spec §6, §7; SPEC_FULL.md ErrRunMissingArgs).
func (a *ActionSpec) UnmarshalYAML(value *yaml.Node) error {
	if err := strictKeys(value, "args", "cmd", "envconf", "detach", "pty"); err != nil {
		return err
	}

	var raw actionSpecYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	switch {
	case len(raw.Args) > 0:
		a.Args = raw.Args
	case raw.Cmd != nil:
		a.Args = CrossShell(*raw.Cmd)
	default:
		return ErrRunMissingArgs
	}

	a.EnvKeys = raw.EnvConf
	a.Detach = raw.Detach != nil && *raw.Detach
	a.Pty = raw.Pty != nil && *raw.Pty

	return nil
}
