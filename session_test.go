package aochat

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"aochat/internal/packet"
	"aochat/internal/wire"
)

// mockServer accepts exactly one connection on an ephemeral loopback port
// and hands it to handle, running handle in its own goroutine.
func mockServer(t *testing.T, handle func(conn net.Conn)) Dimension {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return Dimension{ID: 99, DisplayName: "mock", Host: addr.IP.String(), Port: addr.Port}
}

func writeFrame(t *testing.T, conn net.Conn, typ uint16, body []byte) {
	t.Helper()
	var hdr [4]byte
	hdr[0] = byte(typ >> 8)
	hdr[1] = byte(typ)
	hdr[2] = byte(len(body) >> 8)
	hdr[3] = byte(len(body))
	if _, err := conn.Write(hdr[:]); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	if len(body) > 0 {
		if _, err := conn.Write(body); err != nil {
			t.Fatalf("writing body: %v", err)
		}
	}
}

func readFrame(t *testing.T, conn net.Conn) (uint16, []byte) {
	t.Helper()
	var hdr [4]byte
	if _, err := readFull(conn, hdr[:]); err != nil {
		t.Fatalf("reading header: %v", err)
	}
	typ := uint16(hdr[0])<<8 | uint16(hdr[1])
	length := int(hdr[2])<<8 | int(hdr[3])
	body := make([]byte, length)
	if length > 0 {
		if _, err := readFull(conn, body); err != nil {
			t.Fatalf("reading body: %v", err)
		}
	}
	return typ, body
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestHandshakeHappyPath(t *testing.T) {
	dim := mockServer(t, func(conn net.Conn) {
		seedBody, _ := wire.EncodeStr(nil, wire.Str("SEED"))
		writeFrame(t, conn, packet.TypeLoginSeed, seedBody)

		readFrame(t, conn) // LOGIN_RESPONSE

		var clBody []byte
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{42})
		clBody, _ = wire.EncodeStrArray(clBody, []wire.Str{wire.Str("Foo")})
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{1})
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{1})
		writeFrame(t, conn, packet.TypeCharacterList, clBody)

		readFrame(t, conn) // LOGIN_SELECT_CHARACTER

		writeFrame(t, conn, packet.TypeLoginOK, nil)
	})

	s, err := Open("user", "pass", dim, 2*time.Second, WithCharacter(42))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer s.Logout()

	if s.State() != StateLoggedIn {
		t.Fatalf("state = %v, want LoggedIn", s.State())
	}
	ch := s.Character()
	if ch == nil || ch.ID != 42 {
		t.Fatalf("Character() = %+v, want id 42", ch)
	}
}

func TestHandshakeAuthFailure(t *testing.T) {
	dim := mockServer(t, func(conn net.Conn) {
		seedBody, _ := wire.EncodeStr(nil, wire.Str("SEED"))
		writeFrame(t, conn, packet.TypeLoginSeed, seedBody)

		readFrame(t, conn) // LOGIN_RESPONSE

		errBody, _ := wire.EncodeStr(nil, wire.Str("bad password"))
		writeFrame(t, conn, packet.TypeLoginError, errBody)
	})

	_, err := Open("user", "wrongpass", dim, 2*time.Second)
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("Open error = %v, want *Error", err)
	}
	if aerr.Kind != KindAuth || aerr.Msg != "bad password" {
		t.Fatalf("err = %+v, want Kind=AuthError Msg=%q", aerr, "bad password")
	}
}

func TestRunDeliversUnknownPacket(t *testing.T) {
	dim := mockServer(t, func(conn net.Conn) {
		seedBody, _ := wire.EncodeStr(nil, wire.Str("SEED"))
		writeFrame(t, conn, packet.TypeLoginSeed, seedBody)
		readFrame(t, conn)

		var clBody []byte
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{42})
		clBody, _ = wire.EncodeStrArray(clBody, []wire.Str{wire.Str("Foo")})
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{1})
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{1})
		writeFrame(t, conn, packet.TypeCharacterList, clBody)
		readFrame(t, conn)
		writeFrame(t, conn, packet.TypeLoginOK, nil)

		writeFrame(t, conn, 999, []byte("xx"))
	})

	s, err := Open("user", "pass", dim, 2*time.Second, WithCharacter(42))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer s.Logout()

	received := make(chan packet.ServerPacket, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = s.Run(ctx, 200*time.Millisecond, func(pkt packet.ServerPacket) error {
		received <- pkt
		return Stop
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	select {
	case pkt := <-received:
		u, ok := pkt.(packet.Unknown)
		if !ok {
			t.Fatalf("pkt = %T, want packet.Unknown", pkt)
		}
		if u.Type != 999 || !bytes.Equal(u.Body, []byte("xx")) {
			t.Fatalf("Unknown = %+v, unexpected", u)
		}
	default:
		t.Fatal("expected a packet to be delivered")
	}
}

type capturedFrame struct {
	typ  uint16
	body []byte
}

func TestSessionClientOperationsWriteFrames(t *testing.T) {
	frames := make(chan capturedFrame, 8)
	dim := mockServer(t, func(conn net.Conn) {
		seedBody, _ := wire.EncodeStr(nil, wire.Str("SEED"))
		writeFrame(t, conn, packet.TypeLoginSeed, seedBody)
		readFrame(t, conn) // LOGIN_RESPONSE

		var clBody []byte
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{42})
		clBody, _ = wire.EncodeStrArray(clBody, []wire.Str{wire.Str("Foo")})
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{1})
		clBody, _ = wire.EncodeU32Array(clBody, []wire.U32{1})
		writeFrame(t, conn, packet.TypeCharacterList, clBody)
		readFrame(t, conn) // LOGIN_SELECT_CHARACTER
		writeFrame(t, conn, packet.TypeLoginOK, nil)

		for i := 0; i < 5; i++ {
			typ, body := readFrame(t, conn)
			frames <- capturedFrame{typ, body}
		}
	})

	s, err := Open("user", "pass", dim, 2*time.Second, WithCharacter(42))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer s.Logout()

	if err := s.LookupCharacterName("Foo"); err != nil {
		t.Fatalf("LookupCharacterName: %v", err)
	}
	if err := s.BuddyAdd(7, "friend"); err != nil {
		t.Fatalf("BuddyAdd: %v", err)
	}
	if err := s.BuddyRemove(7); err != nil {
		t.Fatalf("BuddyRemove: %v", err)
	}
	if err := s.SetOnlineStatus(true); err != nil {
		t.Fatalf("SetOnlineStatus: %v", err)
	}
	if err := s.SendChatCommand("/who", "all"); err != nil {
		t.Fatalf("SendChatCommand: %v", err)
	}

	nameLookupBody, _ := wire.EncodeStr(nil, wire.Str("Foo"))
	buddyAddBody, _ := wire.EncodeStr(wire.EncodeU32(nil, 7), wire.Str("friend"))
	buddyRemoveBody := wire.EncodeU32(nil, 7)
	onlineStatusBody := wire.EncodeU32(nil, 1)
	chatCommandBody, _ := wire.EncodeStr(nil, wire.Str("/who"))
	chatCommandBody, _ = wire.EncodeStr(chatCommandBody, wire.Str("all"))

	want := []capturedFrame{
		{packet.TypeNameLookup, nameLookupBody},
		{packet.TypeBuddyAdd, buddyAddBody},
		{packet.TypeBuddyRemove, buddyRemoveBody},
		{packet.TypeOnlineStatus, onlineStatusBody},
		{packet.TypeChatCommand, chatCommandBody},
	}
	for _, w := range want {
		select {
		case got := <-frames:
			if got.typ != w.typ {
				t.Fatalf("frame type = %d, want %d", got.typ, w.typ)
			}
			if !bytes.Equal(got.body, w.body) {
				t.Fatalf("frame type %d body = %x, want %x", w.typ, got.body, w.body)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame type %d", w.typ)
		}
	}
}

func TestDimensionByIDUnknown(t *testing.T) {
	if _, err := DimensionByID(12345); !errors.Is(err, ErrUnknownDimension) {
		t.Fatalf("expected ErrUnknownDimension, got %v", err)
	}
}

func TestCharacterString(t *testing.T) {
	c := Character{ID: 7, Name: "Bob", Level: 5, Online: true}
	want := "<Character [Online] Bob (7), level 5>"
	if got := c.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
