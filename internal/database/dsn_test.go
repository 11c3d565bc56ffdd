package database

import "testing"

func TestDSNFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "bot")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "")

	want := "bot:secret@tcp(db.local:3306)/dinobot?parseTime=true"
	if got := DSNFromEnv(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
