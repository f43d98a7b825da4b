package sky

import (
	"fmt"
	"reflect"
	"testing"
)

func newTestElement(id string) *Element {
	return NewElement(id, "wish "+id, Size{W: 10, H: 4}, 0.9, VariantWarm)
}

func ids(elems []*Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.ID()
	}
	return out
}

func TestRegistryCapacityFIFO(t *testing.T) {
	var released []string
	r := NewRegistry(20, func(e *Element) {
		released = append(released, e.ID())
	})

	for i := 1; i <= 21; i++ {
		r.Add(newTestElement(fmt.Sprint(i)))
		if r.Len() > 20 {
			t.Fatalf("Expected at most 20 elements after insert %d, got %d", i, r.Len())
		}
	}

	var want []string
	for i := 2; i <= 21; i++ {
		want = append(want, fmt.Sprint(i))
	}
	if got := ids(r.All()); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !reflect.DeepEqual(released, []string{"1"}) {
		t.Errorf("Expected element 1 released, got %v", released)
	}
}

func TestRegistryEvictionReturnsOldest(t *testing.T) {
	r := NewRegistry(2, nil)
	r.Add(newTestElement("a"))
	r.Add(newTestElement("b"))

	evicted, ok := r.Add(newTestElement("c"))
	if !ok {
		t.Fatal("Expected insert to succeed")
	}
	if len(evicted) != 1 || evicted[0].ID() != "a" {
		t.Errorf("Expected [a] evicted, got %v", ids(evicted))
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := NewRegistry(5, nil)
	for _, id := range []string{"a", "b", "c"} {
		r.Add(newTestElement(id))
	}

	if !r.Remove("b") {
		t.Error("Expected first remove to report removal")
	}
	once := ids(r.All())

	if r.Remove("b") {
		t.Error("Expected second remove to be a no-op")
	}
	if r.Remove("missing") {
		t.Error("Expected unknown id remove to be a no-op")
	}
	if got := ids(r.All()); !reflect.DeepEqual(got, once) {
		t.Errorf("Expected %v after repeated remove, got %v", once, got)
	}
	if !reflect.DeepEqual(once, []string{"a", "c"}) {
		t.Errorf("Expected [a c], got %v", once)
	}
}

func TestRegistryIgnoresDuplicateIDs(t *testing.T) {
	r := NewRegistry(5, nil)
	r.Add(newTestElement("a"))

	if _, ok := r.Add(newTestElement("a")); ok {
		t.Error("Expected duplicate id to be rejected")
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 element, got %d", r.Len())
	}
}

func TestRegistryClearReleasesAll(t *testing.T) {
	count := 0
	r := NewRegistry(5, func(*Element) { count++ })
	for _, id := range []string{"a", "b", "c"} {
		r.Add(newTestElement(id))
	}

	if n := r.Clear(); n != 3 {
		t.Errorf("Expected 3 cleared, got %d", n)
	}
	if count != 3 || r.Len() != 0 {
		t.Errorf("Expected 3 releases and empty registry, got %d releases and %d left", count, r.Len())
	}
}
