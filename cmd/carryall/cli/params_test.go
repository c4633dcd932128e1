// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlagsTypes(t *testing.T) {
	type params struct {
		Dir      string        `flag:"dir,d" desc:"archive directory"`
		Fix      bool          `flag:"fix" desc:"repair"`
		Count    int           `flag:"count" desc:"count"`
		Size     int64         `flag:"size" desc:"size"`
		Timeout  time.Duration `flag:"timeout" desc:"timeout"`
		Runtimes []string      `flag:"runtime" desc:"runtimes"`
		Skipped  string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	err := flagSet.Parse([]string{
		"-d", "/tmp/archives",
		"--fix",
		"--count", "3",
		"--size", "1099511627776",
		"--timeout", "750ms",
		"--runtime", "bun,node",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Dir != "/tmp/archives" || !p.Fix || p.Count != 3 || p.Size != 1099511627776 || p.Timeout != 750*time.Millisecond {
		t.Errorf("params = %+v", p)
	}
	if len(p.Runtimes) != 2 || p.Runtimes[0] != "bun" || p.Runtimes[1] != "node" {
		t.Errorf("Runtimes = %v", p.Runtimes)
	}
	if flagSet.Lookup("skipped") != nil {
		t.Error("untagged field bound")
	}
}

func TestBindFlagsDefaults(t *testing.T) {
	type params struct {
		Timeout  time.Duration `flag:"timeout" default:"5s"`
		Size     int64         `flag:"size" default:"1024"`
		Color    bool          `flag:"color" default:"true"`
		Runtimes []string      `flag:"runtime" default:"bun"`
		Format   string        `flag:"format" default:"zstd"`
	}
	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatal(err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if p.Timeout != 5*time.Second || p.Size != 1024 || !p.Color || p.Format != "zstd" {
		t.Errorf("defaults = %+v", p)
	}
	if len(p.Runtimes) != 1 || p.Runtimes[0] != "bun" {
		t.Errorf("Runtimes = %v", p.Runtimes)
	}
}

func TestBindFlagsEmbedded(t *testing.T) {
	var p struct {
		Output
		All bool `flag:"all"`
	}
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--json", "--all"}); err != nil {
		t.Fatal(err)
	}
	if !p.OutputJSON || !p.All {
		t.Errorf("params = %+v", p)
	}
}

func TestBindFlagsErrors(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)

	if err := BindFlags(struct{}{}, flagSet); err == nil {
		t.Error("non-pointer accepted")
	}

	var unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	err := BindFlags(&unsupported, flagSet)
	if err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Errorf("error = %v", err)
	}

	var badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("bad default accepted")
	}
}

func TestFlagsFromParamsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic on a non-pointer")
		}
	}()
	FlagsFromParams("test", 42)
}
