package util

import "testing"

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("PEDIGREE_TEST_STRING", "dfs")
	t.Setenv("PEDIGREE_TEST_EMPTY", "")
	t.Setenv("PEDIGREE_TEST_NUM", " 12 ")
	t.Setenv("PEDIGREE_TEST_BAD_NUM", "twelve")
	t.Setenv("PEDIGREE_TEST_BOOL", "TRUE")
	t.Setenv("PEDIGREE_TEST_BAD_BOOL", "maybe")

	if got := GetEnvString("PEDIGREE_TEST_STRING", "gonum"); got != "dfs" {
		t.Fatalf("GetEnvString = %q, want dfs", got)
	}
	if got := GetEnvString("PEDIGREE_TEST_EMPTY", "gonum"); got != "gonum" {
		t.Fatalf("GetEnvString on empty = %q, want gonum", got)
	}
	if got := GetEnvInt("PEDIGREE_TEST_NUM", 1); got != 12 {
		t.Fatalf("GetEnvInt = %d, want 12", got)
	}
	if got := GetEnvInt("PEDIGREE_TEST_BAD_NUM", 3); got != 3 {
		t.Fatalf("GetEnvInt on bad value = %d, want 3", got)
	}
	if got := GetEnvBool("PEDIGREE_TEST_BOOL", false); !got {
		t.Fatal("GetEnvBool = false, want true")
	}
	if got := GetEnvBool("PEDIGREE_TEST_BAD_BOOL", true); !got {
		t.Fatal("GetEnvBool on bad value = false, want default true")
	}
	if got := GetEnv("PEDIGREE_TEST_UNSET"); got != "" {
		t.Fatalf("GetEnv on unset = %q, want empty", got)
	}
}

func TestGetEnvSize(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{value: "2048", want: 2048},
		{value: " 4096 ", want: 4096},
		{value: "lots", want: 7},
		{value: "-5", want: 7},
		{value: "", want: 7},
	}
	for _, tc := range tests {
		t.Setenv("PEDIGREE_TEST_SIZE", tc.value)
		if got := GetEnvSize("PEDIGREE_TEST_SIZE", 7); got != tc.want {
			t.Fatalf("GetEnvSize(%q) = %d, want %d", tc.value, got, tc.want)
		}
	}

	t.Setenv("PEDIGREE_TEST_SIZE", "10M")
	if got := GetEnvSize("PEDIGREE_TEST_SIZE", 7); got < 10_000_000 || got > 10<<20 {
		t.Fatalf("GetEnvSize(10M) = %d, want about ten megabytes", got)
	}
}
