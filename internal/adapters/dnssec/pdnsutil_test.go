package dnssec

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeExecutor struct {
	calls  []string
	output string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, name string, arg ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(arg, " "))
	return []byte(f.output), f.err
}

func newTestPdnsutil(exec *fakeExecutor, configDir string) *PdnsutilProvider {
	p := NewPdnsutilProvider("/usr/bin/pdnsutil", configDir, nil)
	p.executor = exec
	return p
}

func TestNewPdnsutilProvider(t *testing.T) {
	p := NewPdnsutilProvider("", "", nil)
	if p == nil || p.path != "pdnsutil" {
		t.Fatalf("expected default pdnsutil path, got %+v", p)
	}
}

func TestPdnsutilIsZoneSecured(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"secured", "This is a Master zone\nZone has NSEC semantics\nkeys:\nID = 1 (CSK)", true},
		{"not secured", "This is a Native zone\nZone is not actively secured", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{output: tt.output}
			got, err := newTestPdnsutil(exec, "").IsZoneSecured(context.Background(), "example.com")
			if err != nil {
				t.Fatalf("IsZoneSecured failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if exec.calls[0] != "/usr/bin/pdnsutil show-zone example.com" {
				t.Errorf("unexpected command %q", exec.calls[0])
			}
		})
	}
}

func TestPdnsutilCommands(t *testing.T) {
	exec := &fakeExecutor{}
	p := newTestPdnsutil(exec, "/etc/powerdns")
	ctx := context.Background()

	if err := p.UnsecureZone(ctx, "example.com"); err != nil {
		t.Fatalf("UnsecureZone failed: %v", err)
	}
	if err := p.RectifyZone(ctx, "example.com"); err != nil {
		t.Fatalf("RectifyZone failed: %v", err)
	}
	want := []string{
		"/usr/bin/pdnsutil --config-dir=/etc/powerdns disable-dnssec example.com",
		"/usr/bin/pdnsutil --config-dir=/etc/powerdns rectify-zone example.com",
	}
	for i, w := range want {
		if exec.calls[i] != w {
			t.Errorf("call %d: expected %q, got %q", i, w, exec.calls[i])
		}
	}
}

func TestPdnsutilErrors(t *testing.T) {
	exec := &fakeExecutor{output: "Error: No such zone in the database", err: errors.New("exit status 1")}
	p := newTestPdnsutil(exec, "")

	err := p.RectifyZone(context.Background(), "missing.example.com")
	if err == nil || !strings.Contains(err.Error(), "No such zone") {
		t.Errorf("expected command output in error, got %v", err)
	}
	if err := p.UnsecureZone(context.Background(), "bad zone; rm -rf /"); err == nil {
		t.Error("expected invalid zone name to be refused")
	}
	if len(exec.calls) != 1 {
		t.Errorf("invalid zone names must not reach pdnsutil, got %v", exec.calls)
	}
}
