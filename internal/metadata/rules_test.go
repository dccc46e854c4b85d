package metadata

import "testing"

func TestApplyRules(t *testing.T) {
	root := tree(
		"SPL", tree("OPER", "xuser", "DATE", "06/29/20", "TIME", "11:42:11"),
		"fieldCtrl", tree("CenterField", "3480.00 G"),
	)

	Apply(root, []Rule{
		RenameKey("SPL", "OPER", "operator"),
		RenameKey("SPL", "NOPE", "ignored"),
		RenameKey("missing-section", "a", "b"),
		CombineItems("SPL", []string{"DATE", "TIME"}, "date", " "),
		CombineItems("SPL", []string{"X", "Y"}, "never", " "),
		MoveItem("fieldCtrl", "CenterField", "/magnetic_field", "center_field"),
	})

	spl, _ := root.Get("SPL")
	if got := spl.Keys(); len(got) != 2 || got[0] != "operator" || got[1] != "date" {
		t.Errorf("unexpected SPL keys %v", got)
	}
	if d, _ := spl.Get("date"); d.Text() != "06/29/20 11:42:11" {
		t.Errorf("unexpected combined value %q", d.Text())
	}
	if _, ok := spl.Get("never"); ok {
		t.Error("combine of absent keys should be a no-op")
	}
	cf, ok := root.Lookup("/magnetic_field/center_field")
	if !ok || cf.Text() != "3480.00 G" {
		t.Errorf("move failed: %v", cf)
	}
	if fc, _ := root.Get("fieldCtrl"); fc.Len() != 0 {
		t.Errorf("moved key still present: %v", fc.Keys())
	}
}

func TestRenameWholeDocument(t *testing.T) {
	root := tree("HCF", "3480.00")
	Apply(root, []Rule{RenameKey("", "HCF", "center_field")})
	if _, ok := root.Get("center_field"); !ok {
		t.Errorf("root-scoped rename failed: %v", root.Keys())
	}
}
