package graphics

import "testing"

func TestDirtyRange(t *testing.T) {
	var d dirtyRange
	if _, _, ok := d.take(); ok {
		t.Fatal("empty range reported dirty")
	}
	d.mark(7)
	d.mark(3)
	d.mark(5)
	lo, hi, ok := d.take()
	if !ok || lo != 3 || hi != 8 {
		t.Errorf("take = %d, %d, %v; want 3, 8, true", lo, hi, ok)
	}
	if _, _, ok := d.take(); ok {
		t.Error("take did not clear the range")
	}
	d.mark(0)
	if lo, hi, _ := d.take(); lo != 0 || hi != 1 {
		t.Errorf("single index gave [%d,%d)", lo, hi)
	}
}
