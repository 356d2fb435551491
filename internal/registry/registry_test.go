package registry

import (
	"errors"
	"fmt"
	"testing"
)

func TestLookupIsDeterministic(t *testing.T) {
	first, err := Lookup("00112345678")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	second, err := Lookup("00112345678")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if *first != *second {
		t.Errorf("same cedula produced different records:\n%+v\n%+v", first, second)
	}
}

func TestLookupRejectsBadLength(t *testing.T) {
	if _, err := Lookup("123"); err == nil {
		t.Error("short cedula accepted")
	}
	if _, err := Lookup("123456789012"); err == nil {
		t.Error("long cedula accepted")
	}
}

func TestLookupPopulatesRecord(t *testing.T) {
	// Scan until a cedula with a record is found
	var record *Record
	for i := 0; i < 20; i++ {
		r, err := Lookup(fmt.Sprintf("001%08d", i))
		if err == nil {
			record = r
			break
		}
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if record == nil {
		t.Fatal("no record found in 20 attempts")
	}

	if record.Nombres == "" || record.Apellidos == "" {
		t.Errorf("record missing names: %+v", record)
	}
	if record.FechaNacimiento == "" || record.LugarNacimiento == "" {
		t.Errorf("record missing birth data: %+v", record)
	}
	if record.Sexo != "M" && record.Sexo != "F" {
		t.Errorf("Sexo = %q, want M or F", record.Sexo)
	}
	if record.Nacionalidad != "Dominicana" {
		t.Errorf("Nacionalidad = %q", record.Nacionalidad)
	}
}

func TestLookupHasNotFoundCases(t *testing.T) {
	found := false
	for i := 0; i < 50 && !found; i++ {
		if _, err := Lookup(fmt.Sprintf("999%08d", i)); errors.Is(err, ErrNotFound) {
			found = true
		}
	}
	if !found {
		t.Error("no not-found case in 50 attempts")
	}
}
