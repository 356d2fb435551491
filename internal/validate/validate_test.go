package validate

import (
	"errors"
	"testing"
)

func TestEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"juan.perez@mail.do",
		"a@b.co",
	}
	for _, email := range valid {
		if err := Email(email); err != nil {
			t.Errorf("Email(%q) = %v, want nil", email, err)
		}
	}

	if err := Email(""); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("Email(\"\") = %v, want ErrEmailRequired", err)
	}

	invalid := []string{
		"not-an-email",
		"missing@tld",
		"spaces in@example.com",
		"@example.com",
	}
	for _, email := range invalid {
		if err := Email(email); !errors.Is(err, ErrEmailFormat) {
			t.Errorf("Email(%q) = %v, want ErrEmailFormat", email, err)
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password(""); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("Password(\"\") = %v, want ErrPasswordRequired", err)
	}
	if err := Password("12345"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Password(\"12345\") = %v, want ErrPasswordTooShort", err)
	}
	if err := Password("123456"); err != nil {
		t.Errorf("Password(\"123456\") = %v, want nil", err)
	}
}

func TestPasswordChange(t *testing.T) {
	if err := PasswordChange("old-pass", "new-pass", "new-pass"); err != nil {
		t.Errorf("valid change rejected: %v", err)
	}
	if err := PasswordChange("", "new-pass", "new-pass"); err == nil {
		t.Error("missing current password accepted")
	}
	if err := PasswordChange("old-pass", "new-pass", "other"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatched confirmation = %v, want ErrPasswordMismatch", err)
	}
	if err := PasswordChange("same-pass", "same-pass", "same-pass"); !errors.Is(err, ErrPasswordUnchanged) {
		t.Errorf("unchanged password = %v, want ErrPasswordUnchanged", err)
	}
	if err := PasswordChange("old-pass", "short", "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password = %v, want ErrPasswordTooShort", err)
	}
}

func TestRegistration(t *testing.T) {
	if err := Registration("Juan Pérez", "juan@example.com", "secret1", "secret1"); err != nil {
		t.Errorf("valid registration rejected: %v", err)
	}
	if err := Registration("  ", "juan@example.com", "secret1", "secret1"); err == nil {
		t.Error("blank name accepted")
	}
	if err := Registration("Juan", "bad-email", "secret1", "secret1"); !errors.Is(err, ErrEmailFormat) {
		t.Errorf("bad email = %v, want ErrEmailFormat", err)
	}
	if err := Registration("Juan", "juan@example.com", "secret1", "secret2"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("password mismatch = %v, want ErrPasswordMismatch", err)
	}
}

func TestCedula(t *testing.T) {
	if err := Cedula("00112345678"); err != nil {
		t.Errorf("bare 11 digits rejected: %v", err)
	}
	// Dashes are separators, not digits
	if err := Cedula("001-1234567-8"); err != nil {
		t.Errorf("formatted cedula rejected: %v", err)
	}
	if err := Cedula(""); !errors.Is(err, ErrCedulaRequired) {
		t.Errorf("empty cedula = %v, want ErrCedulaRequired", err)
	}
	if err := Cedula("001123456a8"); !errors.Is(err, ErrCedulaDigits) {
		t.Errorf("non-digit cedula = %v, want ErrCedulaDigits", err)
	}
	if err := Cedula("0011234567"); !errors.Is(err, ErrCedulaLength) {
		t.Errorf("10 digits = %v, want ErrCedulaLength", err)
	}
	if err := Cedula("001123456789"); !errors.Is(err, ErrCedulaLength) {
		t.Errorf("12 digits = %v, want ErrCedulaLength", err)
	}
}

func TestCedulaForSearch(t *testing.T) {
	if err := CedulaForSearch("001"); err != nil {
		t.Errorf("partial cedula rejected: %v", err)
	}
	if err := CedulaForSearch("00112345678"); err != nil {
		t.Errorf("full cedula rejected: %v", err)
	}
	if err := CedulaForSearch(""); err == nil {
		t.Error("empty search accepted")
	}
	if err := CedulaForSearch("001123456789"); err == nil {
		t.Error("12-digit search accepted")
	}
}

func TestCleanCedula(t *testing.T) {
	if got := CleanCedula("001-1234567-8"); got != "00112345678" {
		t.Errorf("CleanCedula = %q, want 00112345678", got)
	}
	if got := CleanCedula("abc"); got != "" {
		t.Errorf("CleanCedula(letters) = %q, want empty", got)
	}
}

func TestFormatCedula(t *testing.T) {
	cases := map[string]string{
		"00112345678":   "001-1234567-8",
		"001-1234567-8": "001-1234567-8",
		"001":           "001",
		"0011":          "001-1",
		"00":            "00",
		"":              "",
	}
	for input, want := range cases {
		if got := FormatCedula(input); got != want {
			t.Errorf("FormatCedula(%q) = %q, want %q", input, got, want)
		}
	}
}
