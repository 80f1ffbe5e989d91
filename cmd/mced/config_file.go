package main

import (
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/setup"
)

// fileConfig mirrors the on-disk YAML shape (§6's configuration table:
// memory-ce, memory-ce-counter-replacement, memory-ce-action, the
// trigger paths, max-corr-err-counters). Parsing it is cmd/mced's job,
// not the core's (spec.md §1).
type fileConfig struct {
	CPUModel              string `yaml:"cpu-model"`
	PageTrigger           string `yaml:"memory-ce"`
	ReplacementTrigger    string `yaml:"memory-ce-counter-replacement"`
	Action                string `yaml:"memory-ce-action"`
	MaxCorrErrCounters    int    `yaml:"max-corr-err-counters"`
	RowOfflineRadius      int    `yaml:"row-offline-radius"`
	PreSyncSoftCETrigger  string `yaml:"memory-pre-sync-soft-ce-trigger"`
	PostSyncSoftCETrigger string `yaml:"memory-post-sync-soft-ce-trigger"`
}

func loadConfigFile(path string) (setup.Params, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return setup.Params{}, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return setup.Params{}, err
	}

	action, ok := cmn.ParseOfflineMode(fc.Action)
	if !ok {
		action = cmn.Off
	}
	cpu := cmn.OtherCPU
	if fc.CPUModel == "sandybridge-ep" {
		cpu = cmn.SandyBridgeEP
	}

	pageTrigger, err := parseBucketConf(fc.PageTrigger)
	if err != nil {
		return setup.Params{}, err
	}
	replTrigger, err := parseBucketConf(fc.ReplacementTrigger)
	if err != nil {
		return setup.Params{}, err
	}

	return setup.Params{
		CPUModel:              cpu,
		PageTrigger:           pageTrigger,
		ReplacementTrigger:    replTrigger,
		Action:                action,
		MaxCorrErrCounters:    fc.MaxCorrErrCounters,
		RowOfflineRadius:      fc.RowOfflineRadius,
		PreSyncSoftCETrigger:  fc.PreSyncSoftCETrigger,
		PostSyncSoftCETrigger: fc.PostSyncSoftCETrigger,
	}, nil
}

// parseBucketConf accepts the mcelog-style "command;capacity;age" form
// bound to memory-ce and memory-ce-counter-replacement (spec.md §6); a
// blank value yields a zero BucketConf (capacity 0, never signals).
func parseBucketConf(s string) (cmn.BucketConf, error) {
	if s == "" {
		return cmn.BucketConf{}, nil
	}
	parts := splitN3(s)
	cmd := parts[0]
	capacity, err := parseInt64(parts[1])
	if err != nil {
		return cmn.BucketConf{}, err
	}
	var age time.Duration
	if parts[2] != "" || capacity > 0 {
		age, err = time.ParseDuration(parts[2])
		if err != nil {
			return cmn.BucketConf{}, err
		}
	}
	return cmn.BucketConf{Capacity: capacity, AgeTime: age, Command: cmd}, nil
}
