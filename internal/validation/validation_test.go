package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "longenough",
			wantErr:  false,
		},
		{
			name:     "too short",
			password: "short",
			wantErr:  true,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  true,
		},
		{
			name:     "exactly eight characters",
			password: "12345678",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "John Doe",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "John",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "one character",
			input:   "J",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("firstName", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRole(t *testing.T) {
	tests := []struct {
		role    string
		wantErr bool
	}{
		{role: "guardian", wantErr: false},
		{role: "teacher", wantErr: false},
		{role: "admin", wantErr: true},
		{role: "moderator", wantErr: true},
		{role: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			err := ValidateRole(tt.role)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRole(%q) error = %v, wantErr %v", tt.role, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOTPCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "valid code", code: "123456", wantErr: false},
		{name: "too short", code: "12345", wantErr: true},
		{name: "too long", code: "1234567", wantErr: true},
		{name: "letters", code: "12a456", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOTPCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOTPCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChildAge(t *testing.T) {
	tests := []struct {
		age     int
		wantErr bool
	}{
		{age: 3, wantErr: false},
		{age: 10, wantErr: false},
		{age: 17, wantErr: false},
		{age: 2, wantErr: true},
		{age: 18, wantErr: true},
		{age: 0, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateChildAge(tt.age)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateChildAge(%d) error = %v, wantErr %v", tt.age, err, tt.wantErr)
		}
	}
}

func TestValidateSeverity(t *testing.T) {
	tests := []struct {
		severity string
		wantErr  bool
	}{
		{severity: "", wantErr: false},
		{severity: "mild", wantErr: false},
		{severity: "moderate", wantErr: false},
		{severity: "severe", wantErr: false},
		{severity: "extreme", wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateSeverity(tt.severity)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSeverity(%q) error = %v, wantErr %v", tt.severity, err, tt.wantErr)
		}
	}
}
