package toc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docshelf/internal/toc"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Intro", "intro"},
		{"  Getting Started  ", "getting-started"},
		{"What's new in v2.0?", "whats-new-in-v20"},
		{"a & b", "a-b"},
		{"multi   space\ttab", "multi-space-tab"},
		{"already-hyphenated", "already-hyphenated"},
		{"1. 引言", "1-引言"},
		{"前端开发的未来趋势", "前端开发的未来趋势"},
		{"Ünïcödé", "ünïcödé"},
		{"a &", "a-"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, toc.Slug(tt.in), "input %q", tt.in)
	}
}

func TestAssignAnchors_DuplicateTextFallsBack(t *testing.T) {
	hs := []toc.Heading{
		{Level: 2, Text: "Intro"},
		{Level: 2, Text: "Intro"},
	}
	toc.AssignAnchors(hs, nil)

	require.Equal(t, "intro", hs[0].ID)
	require.Equal(t, "heading-1", hs[1].ID)
	require.NotEqual(t, hs[0].ID, hs[1].ID)
}

func TestAssignAnchors_EmptySlugFallsBack(t *testing.T) {
	hs := []toc.Heading{
		{Level: 1, Text: "Title"},
		{Level: 2, Text: "???"},
	}
	toc.AssignAnchors(hs, nil)
	require.Equal(t, "heading-1", hs[1].ID)
}

func TestAssignAnchors_ReservedAndExistingIDs(t *testing.T) {
	hs := []toc.Heading{
		{Level: 1, Text: "Article Body"},
		{Level: 2, Text: "Setup"},
		{Level: 2, Text: "Custom", ID: "setup"},
		{Level: 2, Text: "Kept", ID: "kept-id"},
	}
	toc.AssignAnchors(hs, []string{"article-body", ""})

	require.Equal(t, "heading-0", hs[0].ID, "reserved page id must not be reused")
	require.Equal(t, "heading-1", hs[1].ID, "id owned by a later heading must not be reused")
	require.Equal(t, "setup", hs[2].ID)
	require.Equal(t, "kept-id", hs[3].ID)
}

func TestAssignAnchors_FirstComeFirstServed(t *testing.T) {
	hs := []toc.Heading{
		{Level: 2, Text: "Usage"},
		{Level: 3, Text: "Usage!"},
		{Level: 3, Text: "usage"},
	}
	toc.AssignAnchors(hs, nil)
	require.Equal(t, []string{"usage", "heading-1", "heading-2"}, []string{hs[0].ID, hs[1].ID, hs[2].ID})
}

func TestAssignAnchors_Unique(t *testing.T) {
	hs := []toc.Heading{
		{Level: 1, Text: "A"}, {Level: 2, Text: "B"}, {Level: 2, Text: "A"},
		{Level: 3, Text: "C"}, {Level: 2, Text: ""}, {Level: 2, Text: "B"},
	}
	toc.AssignAnchors(hs, nil)

	seen := map[string]bool{}
	for _, h := range hs {
		require.NotEmpty(t, h.ID)
		require.False(t, seen[h.ID], "duplicate id %q", h.ID)
		seen[h.ID] = true
	}
}
