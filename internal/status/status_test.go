package status

import "testing"

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{Queued, Sending},
		{Sending, Sent},
		{Sending, Failed},
		{Failed, Queued},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := Transition(tt.from, tt.to)
			if err != nil {
				t.Fatalf("Transition(%s, %s) error = %v", tt.from, tt.to, err)
			}
			if got != tt.to {
				t.Errorf("Transition(%s, %s) = %s, want %s", tt.from, tt.to, got, tt.to)
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{Queued, Sent},
		{Queued, Failed},
		{Sent, Queued},
		{Sent, Sending},
		{Failed, Sent},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := Transition(tt.from, tt.to)
			if err == nil {
				t.Fatalf("Transition(%s, %s) succeeded, want error", tt.from, tt.to)
			}
			if got != tt.from {
				t.Errorf("failed transition changed status to %s, want %s unchanged", got, tt.from)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(Sent) {
		t.Error("Terminal(Sent) = false, want true")
	}
	for _, s := range []Status{Queued, Sending, Failed} {
		if Terminal(s) {
			t.Errorf("Terminal(%s) = true, want false", s)
		}
	}
}
