package main

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type fakeViewer struct {
	closed int
}

func (f *fakeViewer) Update() error { return nil }
func (f *fakeViewer) Draw(*ebiten.Image) {}
func (f *fakeViewer) Layout(outsideWidth, outsideHeight int) (int, int) { return 480, 800 }
func (f *fakeViewer) Close() { f.closed++ }

func TestRunAndClose(t *testing.T) {
	errRun := errors.New("graphics driver lost")

	tests := []struct {
		name    string
		runErr  error
		wantErr error
	}{
		{"正常退出", nil, nil},
		{"运行失败也要关闭", errRun, errRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeViewer{}
			var ran ebiten.Game
			err := runAndClose(v, func(g ebiten.Game) error {
				ran = g
				if v.closed != 0 {
					t.Error("Close() called before the game loop ended")
				}
				return tt.runErr
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runAndClose() error = %v, want %v", err, tt.wantErr)
			}
			if ran != v {
				t.Error("game loop did not receive the viewer")
			}
			if v.closed != 1 {
				t.Errorf("Close() called %d times, want 1", v.closed)
			}
		})
	}
}
