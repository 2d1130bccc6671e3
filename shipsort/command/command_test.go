package command

import (
	"slices"
	"testing"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/smell-of-curry/shipsort/shipsort/ship"
	"github.com/smell-of-curry/shipsort/shipsort/sorter"
)

func TestParseSortFlags(t *testing.T) {
	tests := []struct {
		args    []string
		want    sorter.Options
		wantErr bool
	}{
		{args: nil, want: sorter.Options{}},
		{args: []string{"-a"}, want: sorter.Options{All: true}},
		{args: []string{"--all"}, want: sorter.Options{All: true}},
		{args: []string{"-A"}, want: sorter.Options{All: true, Force: true}},
		{args: []string{"--force", "-a"}, want: sorter.Options{All: true, Force: true}},
		{args: []string{"-x"}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseSortFlags(tt.args)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseSortFlags(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parseSortFlags(%q) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	got, err := splitArgs(cmd.Varargs(`"iron ingot" there always`))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if want := []string{"iron ingot", "there", "always"}; !slices.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if _, err := splitArgs(cmd.Varargs(`"unterminated`)); err == nil {
		t.Fatalf("expected an error for an unterminated quote")
	}
}

func TestParsePutArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    putArgs
		wantErr bool
	}{
		{args: []string{"diamond", "here"}, want: putArgs{item: "diamond", when: ship.Once}},
		{args: []string{"Iron Ingot", "THERE", "game"}, want: putArgs{item: "Iron Ingot", there: true, when: ship.Game}},
		{args: []string{"bell", "here", "round"}, want: putArgs{item: "bell", when: ship.Game}},
		{args: []string{"bell", "here", "Save"}, want: putArgs{item: "bell", when: ship.Always}},
		{args: []string{"bell", "here", "now"}, want: putArgs{item: "bell", when: ship.Once}},
		{args: []string{"bell"}, wantErr: true},
		{args: []string{"bell", "somewhere"}, wantErr: true},
		{args: []string{"bell", "here", "forever"}, wantErr: true},
		{args: []string{"bell", "here", "once", "extra"}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := parsePutArgs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parsePutArgs(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parsePutArgs(%q) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

type fakeItem struct {
	key, name string
	known     bool
}

func (f fakeItem) Key() string  { return f.key }
func (f fakeItem) Name() string { return f.name }
func (f fakeItem) Known() bool  { return f.known }

func TestItemLines(t *testing.T) {
	items := []fakeItem{
		{key: "diamond", name: "Diamond", known: true},
		{key: "mod.Zapper", name: "mod.Zapper"},
		{key: "mod.apple", name: "mod.apple"},
		{key: "mod.apple", name: "mod.apple"},
		{key: "bell", name: "Bell", known: true},
	}

	if got, want := itemLines(items, false), []string{"mod.apple", "mod.Zapper"}; !slices.Equal(got, want) {
		t.Fatalf("unknown items: expected %q, got %q", want, got)
	}
	want := []string{"bell: Bell", "diamond: Diamond", "mod.apple", "mod.Zapper"}
	if got := itemLines(items, true); !slices.Equal(got, want) {
		t.Fatalf("all items: expected %q, got %q", want, got)
	}
}
