package rebuild

import "testing"

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "structural", want: RepairStructural},
		{in: "legacy", want: RepairLegacy},
		{in: "", wantErr: true},
		{in: "Linework", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStrategy(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewAssemblerDefaults(t *testing.T) {
	a := NewAssembler("", nil, nil)

	if a.Strategy() != RepairStructural {
		t.Errorf("default strategy = %v, want %v", a.Strategy(), RepairStructural)
	}
}
