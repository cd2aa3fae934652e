package main

import (
	"testing"

	"github.com/JaimeStill/perito-hub/internal/laudos"
	"github.com/JaimeStill/perito-hub/internal/processes"
)

func TestProcessSeeder_EmbeddedDataIsValid(t *testing.T) {
	data, err := (&ProcessSeeder{}).loadSeedData()
	if err != nil {
		t.Fatalf("loadSeedData() error = %v", err)
	}
	if len(data.Processes) == 0 {
		t.Fatal("no processes in embedded seed file")
	}

	statuses := map[processes.Status]bool{}
	for _, cmd := range data.Processes {
		cmd = cmd.Normalize()
		if err := cmd.Validate(); err != nil {
			t.Errorf("process %s invalid: %v", cmd.Number, err)
		}
		statuses[cmd.Status] = true
	}
	if len(statuses) != len(processes.Statuses()) {
		t.Errorf("seed covers %d statuses, want %d", len(statuses), len(processes.Statuses()))
	}
}

func TestLaudoSeeder_EmbeddedDataIsValid(t *testing.T) {
	data, err := (&LaudoSeeder{}).loadSeedData()
	if err != nil {
		t.Fatalf("loadSeedData() error = %v", err)
	}
	procs, err := (&ProcessSeeder{}).loadSeedData()
	if err != nil {
		t.Fatalf("loadSeedData() error = %v", err)
	}

	numbers := map[string]bool{}
	for _, p := range procs.Processes {
		p = p.Normalize()
		numbers[p.Number] = true
	}

	ids := map[string]bool{}
	statuses := map[laudos.Status]bool{}
	for _, cmd := range data.Laudos {
		cmd = cmd.Normalize()
		if err := cmd.Validate(); err != nil {
			t.Errorf("laudo %q invalid: %v", cmd.Title, err)
		}
		if !numbers[cmd.ProcessNumber] {
			t.Errorf("laudo %q references unseeded process %s", cmd.Title, cmd.ProcessNumber)
		}
		id := laudoSeedID(cmd).String()
		if ids[id] {
			t.Errorf("laudo %q duplicates seed id %s", cmd.Title, id)
		}
		ids[id] = true
		statuses[cmd.Status] = true
	}
	if len(statuses) != len(laudos.Statuses()) {
		t.Errorf("seed covers %d statuses, want %d", len(statuses), len(laudos.Statuses()))
	}
}

func TestListSeeders(t *testing.T) {
	list := listSeeders()
	var names []string
	for _, s := range list {
		names = append(names, s.Name())
	}
	if len(names) < 2 || names[0] != "processes" || names[1] != "laudos" {
		t.Fatalf("listSeeders() = %v, want processes before laudos", names)
	}
	for _, name := range []string{"processes", "laudos"} {
		if _, ok := getSeeder(name); !ok {
			t.Errorf("getSeeder(%s) not found", name)
		}
	}
}
