package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EFORMAT,
				Message: "invalid id: \"x\"",
			},
			expected: "invalid id: \"x\"",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EFORMAT,
				Op:      "transcode.decode",
				Message: "invalid id: \"x\"",
			},
			expected: "transcode.decode: invalid id: \"x\"",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "catalog.save",
				Message: "failed to write catalog",
				Err:     errors.New("disk full"),
			},
			expected: "catalog.save: failed to write catalog: disk full",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to write catalog",
				Err:     errors.New("disk full"),
			},
			expected: "failed to write catalog: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{
		Code:    EINTERNAL,
		Message: "wrapped",
		Err:     underlying,
	}

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Error.Unwrap() = %v, want %v", unwrapped, underlying)
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error", err: &Error{Code: EFORMAT, Message: "test"}, expected: EFORMAT},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("row 3: %w", &Error{Code: ENOTFOUND, Message: "test"}),
			expected: ENOTFOUND,
		},
		{name: "non-domain error", err: errors.New("some error"), expected: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{
			name:     "domain error with message",
			err:      &Error{Code: EFORMAT, Message: "invalid price: \"abc\""},
			expected: "invalid price: \"abc\"",
		},
		{
			name:     "internal error hides message",
			err:      &Error{Code: EINTERNAL, Message: "open /etc/secret: permission denied"},
			expected: "An internal error occurred. See the log for details.",
		},
		{
			name:     "non-domain error returns generic message",
			err:      errors.New("some internal detail"),
			expected: "An internal error occurred. See the log for details.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error with op", err: &Error{Code: EFORMAT, Op: "transcode.decode", Message: "test"}, expected: "transcode.decode"},
		{name: "domain error without op", err: &Error{Code: EFORMAT, Message: "test"}, expected: ""},
		{name: "non-domain error", err: errors.New("test"), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorOp(tt.err); got != tt.expected {
				t.Errorf("ErrorOp() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(EFORMAT, "transcode.decode", "invalid price: %q", "abc")

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("Errorf should return *Error")
	}

	if domainErr.Code != EFORMAT {
		t.Errorf("Code = %q, want %q", domainErr.Code, EFORMAT)
	}
	if domainErr.Op != "transcode.decode" {
		t.Errorf("Op = %q, want %q", domainErr.Op, "transcode.decode")
	}
	if domainErr.Message != `invalid price: "abc"` {
		t.Errorf("Message = %q, want %q", domainErr.Message, `invalid price: "abc"`)
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("disk full")
		err := WrapError(underlying, EINTERNAL, "catalog.save", "failed to write catalog")

		var domainErr *Error
		if !errors.As(err, &domainErr) {
			t.Fatal("WrapError should return *Error")
		}
		if domainErr.Code != EINTERNAL {
			t.Errorf("Code = %q, want %q", domainErr.Code, EINTERNAL)
		}
		if !errors.Is(err, underlying) {
			t.Error("should wrap underlying error")
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if err := WrapError(nil, EINTERNAL, "test", "test"); err != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", err)
		}
	})
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     string
		expected bool
	}{
		{name: "matching code", err: &Error{Code: ENOTFOUND}, code: ENOTFOUND, expected: true},
		{name: "non-matching code", err: &Error{Code: EFORMAT}, code: ENOTFOUND, expected: false},
		{name: "non-domain error matches EINTERNAL", err: errors.New("test"), code: EINTERNAL, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: 0},
		{name: "lookup is soft", err: Lookup("catalog.patch", "product", "7"), expected: 0},
		{name: "format aborts", err: FormatError("transcode.decode", "id", "x"), expected: 1},
		{name: "not found aborts", err: NotFound("catalog.load", "catalog", "products.json"), expected: 1},
		{name: "invalid arguments", err: Invalid("cli", "too many arguments"), expected: 2},
		{name: "plain error", err: errors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single field error", func(t *testing.T) {
		err := NewValidationError("config.load", "log_level", "must be one of debug info warn error")

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("NewValidationError should return *ValidationError")
		}
		if ve.Op != "config.load" {
			t.Errorf("Op = %q, want %q", ve.Op, "config.load")
		}

		expected := "config.load: log_level: must be one of debug info warn error"
		if ve.Error() != expected {
			t.Errorf("Error() = %q, want %q", ve.Error(), expected)
		}
	})

	t.Run("multiple field errors", func(t *testing.T) {
		err := NewValidationError("config.load", "env", "required")
		err = AddFieldError(err, "catalog_path", "required")

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("should be ValidationError")
		}
		if len(ve.Fields) != 2 {
			t.Errorf("Fields count = %d, want 2", len(ve.Fields))
		}
		if ve.Error() != "config.load: validation failed for 2 fields" {
			t.Errorf("Error() = %q", ve.Error())
		}
	})

	t.Run("add field to nil error", func(t *testing.T) {
		err := AddFieldError(nil, "env", "required")
		if !IsValidationError(err) {
			t.Fatal("AddFieldError(nil) should return *ValidationError")
		}
		if GetValidationFields(err)["env"] != "required" {
			t.Errorf("fields[env] = %q, want %q", GetValidationFields(err)["env"], "required")
		}
	})

	t.Run("non-validation error has no fields", func(t *testing.T) {
		if GetValidationFields(errors.New("test")) != nil {
			t.Error("GetValidationFields should return nil for non-validation error")
		}
	})
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{name: "FormatError", err: FormatError("transcode.decode", "price", "1,50"), code: EFORMAT, message: `invalid price: "1,50"`},
		{name: "NotFound", err: NotFound("catalog.load", "catalog", "products.json"), code: ENOTFOUND, message: "catalog not found: products.json"},
		{name: "Lookup", err: Lookup("catalog.patch", "product", "42"), code: ELOOKUP, message: "no product with id 42"},
		{name: "Invalid", err: Invalid("cli.args", "expected at most one file"), code: EINVALID, message: "expected at most one file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ErrorCode(tt.err) != tt.code {
				t.Errorf("code = %q, want %q", ErrorCode(tt.err), tt.code)
			}
			if ErrorMessage(tt.err) != tt.message {
				t.Errorf("message = %q, want %q", ErrorMessage(tt.err), tt.message)
			}
		})
	}

	t.Run("Internal", func(t *testing.T) {
		underlying := errors.New("disk full")
		err := Internal(underlying, "catalog.save", "failed to write catalog")
		if ErrorCode(err) != EINTERNAL {
			t.Errorf("Internal code = %q, want %q", ErrorCode(err), EINTERNAL)
		}
		if !errors.Is(err, underlying) {
			t.Error("Internal should wrap underlying error")
		}
	})
}
