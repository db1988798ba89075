package domain

import "time"

type Session struct {
	ID        string
	Model     string
	CreatedAt time.Time
}

type Message struct {
	Role      string // user|assistant
	Content   string
	CreatedAt time.Time
}
