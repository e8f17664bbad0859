package alsa

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/zawwz/rmidimap/internal/midi"
)

// WatchDeviceEvents subscribes this client's application port to the
// system announce port and forwards every PORT_START notification as a
// midi.Port on tx, until ctx is cancelled (spec §4.D "hot-plug watch",
// §9 "Signal a run loop must restart when a device appears").
func (c *Client) WatchDeviceEvents(ctx context.Context, tx chan<- midi.Port) error {
	sub := portSubscribe{
		Sender: addrT{Client: systemClient, Port: systemAnnouncePort},
		Dest:   c.port,
	}

	if err := ioctlSubscribePort(c.fd, &sub); err != nil {
		return fmt.Errorf("alsa: subscribe to system announce: %w", err)
	}

	defer func() { _ = ioctlUnsubscribePort(c.fd, &sub) }()

	// Wake the blocking poll below through the self-pipe once ctx is done.
	stopWake := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.closed {
			_, _ = unix.Write(c.stopW, []byte{0})
		}
	})
	defer stopWake()

	pollFds := []unix.PollFd{
		{Fd: int32(c.fd), Events: unix.POLLIN},
		{Fd: int32(c.stopR), Events: unix.POLLIN},
	}

	buf := make([]byte, sizeofEvent)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := unix.Poll(pollFds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}

			return err
		}

		if n == 0 {
			continue
		}

		if pollFds[1].Revents&unix.POLLIN != 0 {
			return ctx.Err()
		}

		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		nread, err := unix.Read(c.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}

			return err
		}

		if nread < sizeofEvent {
			continue
		}

		ev := decodeEvent(buf)
		if ev.Type != evPortStart {
			continue
		}

		cd := ev.connect()

		port, err := ioctlGetPortInfo(c.fd, cd.Sender)
		if err != nil {
			continue
		}

		client, err := ioctlGetClientInfo(c.fd, int32(cd.Sender.Client))
		if err != nil {
			continue
		}

		select {
		case tx <- midi.Port{
			Name: fmt.Sprintf("%s %s", cstr(client.Name[:]), cstr(port.Name[:])),
			Addr: fmt.Sprintf("%d:%d", cd.Sender.Client, cd.Sender.Port),
		}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
