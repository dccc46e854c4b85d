package metadata

import "testing"

func tree(pairs ...any) *Node {
	n := NewMapping()
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case *Node:
			n.Set(key, v)
		case string:
			n.SetString(key, v)
		case float64:
			n.SetNumber(key, v)
		}
	}
	return n
}

func TestMergeLaterWins(t *testing.T) {
	info := tree("GENERAL", tree("operator", "Jane"))
	param := tree("GENERAL", tree("operator", "Spectrometer"))

	merged, log := Merge(info, param)

	op, ok := merged.Lookup("/GENERAL/operator")
	if !ok {
		t.Fatal("operator missing from merged tree")
	}
	if op.Text() != "Spectrometer" {
		t.Errorf("expected Spectrometer, got %q", op.Text())
	}
	if len(log) != 1 {
		t.Fatalf("expected 1 override, got %d: %v", len(log), log)
	}
	if log[0] != "Possible override @ /GENERAL/operator." {
		t.Errorf("unexpected log entry %q", log[0])
	}
	if paths := log.Paths(); paths[0] != "/GENERAL/operator" {
		t.Errorf("unexpected path %q", paths[0])
	}

	if orig, _ := info.Lookup("/GENERAL/operator"); orig.Text() != "Jane" {
		t.Error("Merge modified its input")
	}
}

func TestMergeDisjointKeys(t *testing.T) {
	info := tree("SAMPLE", tree("name", "TEMPO"))
	param := tree("BRIDGE", tree("power", 2.0))

	merged, log := Merge(info, param)
	if len(log) != 0 {
		t.Errorf("expected no overrides, got %v", log)
	}
	if got := merged.Keys(); len(got) != 2 || got[0] != "SAMPLE" || got[1] != "BRIDGE" {
		t.Errorf("unexpected keys %v", got)
	}
}

func TestMergeTopLevelCaseInsensitive(t *testing.T) {
	info := tree("general", tree("operator", "Jane", "date", "2020-01-01"))
	param := tree("GENERAL", tree("operator", "Spectrometer", "Date", "2021-02-02"))

	merged, log := Merge(info, param)

	if _, ok := merged.Get("GENERAL"); ok {
		t.Error("top-level key should keep the earlier spelling")
	}
	general, ok := merged.Get("general")
	if !ok {
		t.Fatal("general section missing")
	}
	if general.Len() != 3 {
		t.Errorf("expected nested keys to be matched verbatim, got %v", general.Keys())
	}
	if len(log) != 1 || log[0] != "Possible override @ /GENERAL/operator." {
		t.Errorf("unexpected log %v", log)
	}
}

func TestMergeDeepAndMixed(t *testing.T) {
	info := tree(
		"bridge", tree("power", tree("value", "2", "unit", "mW")),
		"comment", "manual",
	)
	param := tree(
		"bridge", tree("power", tree("value", 20.0, "unit", "mW")),
		"comment", tree("text", "from file"),
	)

	merged, log := Merge(info, param)

	want := []string{
		"Possible override @ /bridge/power/value.",
		"Possible override @ /bridge/power/unit.",
		"Possible override @ /comment.",
	}
	if len(log) != len(want) {
		t.Fatalf("expected %d overrides, got %v", len(want), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
	if v, _ := merged.Lookup("/bridge/power/value"); v.Value() != 20.0 {
		t.Errorf("expected parameter value to win, got %v", v.Value())
	}
	if c, _ := merged.Get("comment"); !c.IsMapping() {
		t.Error("expected mapping from later source to replace scalar")
	}
}

func TestMergeNilInputs(t *testing.T) {
	param := tree("a", "1")

	merged, log := Merge(nil, param)
	if merged.Len() != 1 || len(log) != 0 {
		t.Errorf("unexpected merge with nil info: %v %v", merged.Keys(), log)
	}

	merged, _ = Merge(param, nil)
	if merged.Len() != 1 {
		t.Errorf("unexpected merge with nil param: %v", merged.Keys())
	}
}
