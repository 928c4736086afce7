package pgadapter

import "testing"

func TestDialect(t *testing.T) {
	a, err := New("postgres://localhost/sprout?sslmode=disable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()
	if p := a.Placeholder(3); p != "$3" {
		t.Errorf("expected $3, got %s", p)
	}
	if cn, err := a.ColumnName("X1"); err != nil || cn != `"X1"` {
		t.Errorf(`expected "X1", nil; got %s, %v`, cn, err)
	}
	if _, err := a.ColumnName(`a"b`); err == nil {
		t.Errorf("expected error for a name with quotes")
	}
}
