package application

import "time"

// Clock stamps history records and ages sessions; tests swap in a fixed one.
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now() (waktu lokal server, sama seperti tampilan history)
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
