package mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
)

// StaticDirectory resolves ids from fixed maps; unknown ids return an error so
// callers exercise their fallback path.
type StaticDirectory struct {
	Users    map[string]messaging.UserInfo
	Channels map[string]string
}

func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{
		Users:    make(map[string]messaging.UserInfo),
		Channels: make(map[string]string),
	}
}

func (d *StaticDirectory) UserInfo(_ context.Context, id string) (messaging.UserInfo, error) {
	info, ok := d.Users[id]
	if !ok {
		return messaging.UserInfo{}, errors.New("user not found: " + id)
	}

	return info, nil
}

func (d *StaticDirectory) ChannelName(_ context.Context, id string) (string, error) {
	name, ok := d.Channels[id]
	if !ok {
		return "", errors.New("channel not found: " + id)
	}

	return name, nil
}

func generateTS(seq int) string {
	return fmt.Sprintf("1700000000.%06d", seq)
}
