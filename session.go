// Package aochat implements a client for the Anarchy Online chat service: a
// long-lived TCP session using a proprietary binary framing protocol, a
// Diffie-Hellman/TEA login handshake, and a typed catalog of chat, presence,
// channel, and private-group frames.
package aochat

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"aochat/internal/loginkey"
	"aochat/internal/metrics"
	"aochat/internal/packet"
	"aochat/internal/transport"
	"aochat/internal/wire"
)

// SessionState is one stage of the handshake/steady-state lifecycle
// (spec.md §4.6).
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateAwaitingSeed
	StateAwaitingCharacterList
	StateCharactersKnown
	StateAwaitingLoginOk
	StateLoggedIn
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateAwaitingSeed:
		return "AwaitingSeed"
	case StateAwaitingCharacterList:
		return "AwaitingCharacterList"
	case StateCharactersKnown:
		return "CharactersKnown"
	case StateAwaitingLoginOk:
		return "AwaitingLoginOk"
	case StateLoggedIn:
		return "LoggedIn"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

var allStates = []string{
	StateDisconnected.String(), StateAwaitingSeed.String(), StateAwaitingCharacterList.String(),
	StateCharactersKnown.String(), StateAwaitingLoginOk.String(), StateLoggedIn.String(), StateClosed.String(),
}

// Session owns one TCP connection to one dimension server. It is not safe
// for concurrent use: one goroutine must drive it, matching the
// single-owner socket model of spec.md §5.
type Session struct {
	mu sync.Mutex

	id         xid.ID
	conn       *transport.Conn
	dimension  Dimension
	username   string
	password   string
	timeout    time.Duration
	randSource io.Reader

	state      SessionState
	characters []Character
	character  *Character

	pendingCharacter *uint32

	log     *logrus.Entry
	metrics *metrics.Collector
}

// Open dials dimension, performs the handshake through character-list
// retrieval (spec.md §4.6 steps 1-3), and, if WithCharacter was supplied,
// continues through character selection into StateLoggedIn before
// returning.
func Open(username, password string, dimension Dimension, timeout time.Duration, opts ...Option) (*Session, error) {
	s := &Session{
		id:        xid.New(),
		dimension: dimension,
		username:  username,
		password:  password,
		timeout:   timeout,
		state:     StateDisconnected,
		log:       logrus.StandardLogger().WithField("component", "aochat"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(logrus.Fields{
		"session_id": s.id.String(),
		"dimension":  dimension.DisplayName,
	})

	if err := s.connect(); err != nil {
		return nil, err
	}
	if err := s.handshakeSeedAndCharacters(); err != nil {
		s.conn.Close()
		s.setState(StateClosed)
		return nil, err
	}
	if s.pendingCharacter != nil {
		if err := s.Login(*s.pendingCharacter); err != nil {
			s.conn.Close()
			s.setState(StateClosed)
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) setState(st SessionState) {
	s.state = st
	s.metrics.SetState(allStates, st.String())
	s.log.WithField("state", st.String()).Debug("session state changed")
}

// State reports the session's current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Characters returns the character list advertised at login. It is empty
// until the handshake reaches StateCharactersKnown or later.
func (s *Session) Characters() []Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Character, len(s.characters))
	copy(out, s.characters)
	return out
}

// Character returns the currently selected character, or nil if none has
// been selected yet.
func (s *Session) Character() *Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.character == nil {
		return nil
	}
	c := *s.character
	return &c
}

func (s *Session) connect() error {
	s.log.WithField("addr", s.dimension.Addr()).Info("dialing dimension server")
	conn, err := transport.Dial(s.dimension.Addr(), s.timeout)
	if err != nil {
		return newError(KindNetwork, "dial "+s.dimension.Addr(), err)
	}
	s.conn = conn
	s.setState(StateAwaitingSeed)
	return nil
}

func (s *Session) handshakeSeedAndCharacters() error {
	typ, body, err := s.readFrame()
	if err != nil {
		return err
	}
	if typ != packet.TypeLoginSeed {
		return newError(KindUnknownPacket, fmt.Sprintf("expected LOGIN_SEED, got type %d", typ), nil)
	}
	seed, _, err := wire.DecodeStr(body)
	if err != nil {
		return newError(KindMalformedFrame, "decoding LOGIN_SEED", err)
	}

	randSource := s.randSource
	if randSource == nil {
		randSource = rand.Reader
	}
	loginKey, err := loginkey.Generate(randSource, seed, []byte(s.username), []byte(s.password))
	if err != nil {
		return newError(KindNetwork, "generating login key", err)
	}

	s.setState(StateAwaitingCharacterList)

	var reqBody []byte
	reqBody = wire.EncodeU32(reqBody, 0)
	reqBody, err = wire.EncodeStr(reqBody, wire.Str(s.username))
	if err != nil {
		return newError(KindOutOfRange, "encoding username", err)
	}
	reqBody, err = wire.EncodeStr(reqBody, wire.Str(loginKey))
	if err != nil {
		return newError(KindOutOfRange, "encoding login key", err)
	}
	if err := s.writeFrame(packet.TypeLoginResponse, reqBody); err != nil {
		return err
	}

	typ, body, err = s.readFrame()
	if err != nil {
		return err
	}
	if typ == packet.TypeLoginError {
		msg, _, derr := wire.DecodeStr(body)
		if derr != nil {
			return newError(KindMalformedFrame, "decoding LOGIN_ERROR", derr)
		}
		return newError(KindAuth, string(msg), nil)
	}
	if typ != packet.TypeCharacterList {
		return newError(KindUnknownPacket, fmt.Sprintf("expected CHARACTER_LIST, got type %d", typ), nil)
	}
	pkt, err := packet.Decode(typ, body)
	if err != nil {
		return newError(KindMalformedFrame, "decoding CHARACTER_LIST", err)
	}
	cl, ok := pkt.(packet.CharacterList)
	if !ok {
		return newError(KindMalformedFrame, "CHARACTER_LIST decoded to unexpected type", nil)
	}
	s.characters = charactersFromList(cl)
	s.setState(StateCharactersKnown)
	return nil
}

func charactersFromList(cl packet.CharacterList) []Character {
	n := len(cl.IDs)
	out := make([]Character, 0, n)
	for i := 0; i < n; i++ {
		c := Character{ID: uint32(cl.IDs[i])}
		if i < len(cl.Names) {
			c.Name = string(cl.Names[i])
		}
		if i < len(cl.Levels) {
			c.Level = uint32(cl.Levels[i])
		}
		if i < len(cl.Online) {
			c.Online = cl.Online[i] != 0
		}
		out = append(out, c)
	}
	return out
}

// Login selects characterID and completes the handshake into StateLoggedIn
// (spec.md §4.6 step 4).
func (s *Session) Login(characterID uint32) error {
	s.mu.Lock()
	if s.state != StateCharactersKnown {
		s.mu.Unlock()
		return newError(KindIllegalState, "Login called outside CharactersKnown", nil)
	}
	var found *Character
	for i := range s.characters {
		if s.characters[i].ID == characterID {
			found = &s.characters[i]
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return newError(KindNoSuchCharacter, fmt.Sprintf("character id %d not in advertised list", characterID), nil)
	}

	s.setState(StateAwaitingLoginOk)
	if err := s.writeFrame(packet.TypeLoginSelectCharacter, packet.EncodeLoginSelectCharacter(wire.U32(characterID))); err != nil {
		return err
	}

	typ, body, err := s.readFrame()
	if err != nil {
		return err
	}
	if typ == packet.TypeLoginError {
		msg, _, derr := wire.DecodeStr(body)
		if derr != nil {
			return newError(KindMalformedFrame, "decoding LOGIN_ERROR", derr)
		}
		return newError(KindAuth, string(msg), nil)
	}
	if typ != packet.TypeLoginOK {
		return newError(KindUnknownPacket, fmt.Sprintf("expected LOGIN_OK, got type %d", typ), nil)
	}

	s.mu.Lock()
	s.character = found
	s.mu.Unlock()
	s.setState(StateLoggedIn)
	return nil
}

// Logout transitions LoggedIn to Closed and releases the socket. The
// protocol defines no logout frame; closing the connection is sufficient.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return nil
	}
	err := s.conn.Close()
	s.state = StateClosed
	s.metrics.SetState(allStates, s.state.String())
	if err != nil {
		return newError(KindNetwork, "closing connection", err)
	}
	return nil
}

func (s *Session) requireLoggedIn(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoggedIn {
		return newError(KindIllegalState, op+" requires StateLoggedIn", nil)
	}
	return nil
}

func (s *Session) readFrame() (uint16, []byte, error) {
	h, body, err := s.conn.ReadFrame()
	if err != nil {
		if transport.IsTimeout(err) {
			return 0, nil, newError(KindTimeout, "reading frame", err)
		}
		return 0, nil, newError(KindNetwork, "reading frame", err)
	}
	s.metrics.FrameRead()
	return h.Type, body, nil
}

func (s *Session) writeFrame(typ uint16, body []byte) error {
	if err := s.conn.WriteFrame(typ, body); err != nil {
		if transport.IsTimeout(err) {
			return newError(KindTimeout, "writing frame", err)
		}
		return newError(KindNetwork, "writing frame", err)
	}
	s.metrics.FrameWritten()
	return nil
}

// SendPrivateMessage sends a tell to another character by id.
func (s *Session) SendPrivateMessage(characterID uint32, text string) error {
	if err := s.requireLoggedIn("SendPrivateMessage"); err != nil {
		return err
	}
	body, err := packet.EncodePrivateMessage(wire.U32(characterID), text, "")
	if err != nil {
		return newError(KindOutOfRange, "encoding private message", err)
	}
	return s.writeFrame(packet.TypeClientMsgPrivate, body)
}

// SendPrivateChannelMessage sends a message to the private channel owned
// by ownerID.
func (s *Session) SendPrivateChannelMessage(ownerID uint32, text string) error {
	if err := s.requireLoggedIn("SendPrivateChannelMessage"); err != nil {
		return err
	}
	body, err := packet.EncodePrivchMessage(wire.U32(ownerID), text, "")
	if err != nil {
		return newError(KindOutOfRange, "encoding private channel message", err)
	}
	return s.writeFrame(packet.TypeClientPrivchMsg, body)
}

// SendChannelMessage sends a message to a server-moderated channel.
func (s *Session) SendChannelMessage(channelID wire.ChannelID, text string) error {
	if err := s.requireLoggedIn("SendChannelMessage"); err != nil {
		return err
	}
	body, err := packet.EncodeChannelMessage(channelID, text, "")
	if err != nil {
		return newError(KindOutOfRange, "encoding channel message", err)
	}
	return s.writeFrame(packet.TypeClientChannelMsg, body)
}

// PrivateChannelInvite invites characterID to the session's private
// channel.
func (s *Session) PrivateChannelInvite(characterID uint32) error {
	if err := s.requireLoggedIn("PrivateChannelInvite"); err != nil {
		return err
	}
	return s.writeFrame(packet.TypePrivchInvite, packet.EncodePrivchInviteRequest(wire.U32(characterID)))
}

// PrivateChannelKick removes characterID from the session's private
// channel.
func (s *Session) PrivateChannelKick(characterID uint32) error {
	if err := s.requireLoggedIn("PrivateChannelKick"); err != nil {
		return err
	}
	return s.writeFrame(packet.TypePrivchKick, packet.EncodePrivchKickRequest(wire.U32(characterID)))
}

// LookupCharacterName asks the server to resolve name to a character id.
// The result arrives asynchronously as a LookupResult frame through Run.
func (s *Session) LookupCharacterName(name string) error {
	if err := s.requireLoggedIn("LookupCharacterName"); err != nil {
		return err
	}
	body, err := packet.EncodeNameLookup(name)
	if err != nil {
		return newError(KindOutOfRange, "encoding name lookup", err)
	}
	return s.writeFrame(packet.TypeNameLookup, body)
}

// BuddyAdd adds characterID to the buddy list under the given group typ.
func (s *Session) BuddyAdd(characterID uint32, typ string) error {
	if err := s.requireLoggedIn("BuddyAdd"); err != nil {
		return err
	}
	body, err := packet.EncodeBuddyAdd(wire.U32(characterID), typ)
	if err != nil {
		return newError(KindOutOfRange, "encoding buddy add", err)
	}
	return s.writeFrame(packet.TypeBuddyAdd, body)
}

// BuddyRemove removes characterID from the buddy list.
func (s *Session) BuddyRemove(characterID uint32) error {
	if err := s.requireLoggedIn("BuddyRemove"); err != nil {
		return err
	}
	return s.writeFrame(packet.TypeBuddyRemove, packet.EncodeBuddyRemove(wire.U32(characterID)))
}

// SetOnlineStatus toggles whether the session's character is visible as
// online to its buddies.
func (s *Session) SetOnlineStatus(online bool) error {
	if err := s.requireLoggedIn("SetOnlineStatus"); err != nil {
		return err
	}
	var status wire.U32
	if online {
		status = 1
	}
	return s.writeFrame(packet.TypeOnlineStatus, packet.EncodeOnlineStatus(status))
}

// SendChatCommand issues a raw client-side chat command, for server
// features with no dedicated packet type. args is the command's second
// catalog field and may be empty.
func (s *Session) SendChatCommand(command, args string) error {
	if err := s.requireLoggedIn("SendChatCommand"); err != nil {
		return err
	}
	body, err := packet.EncodeChatCommand(command, args)
	if err != nil {
		return newError(KindOutOfRange, "encoding chat command", err)
	}
	return s.writeFrame(packet.TypeChatCommand, body)
}

// Ping sends a keepalive ping with an arbitrary payload.
func (s *Session) Ping(message string) error {
	if err := s.requireLoggedIn("Ping"); err != nil {
		return err
	}
	body, err := packet.EncodePing(message)
	if err != nil {
		return newError(KindOutOfRange, "encoding ping", err)
	}
	return s.writeFrame(packet.TypePing, body)
}

// Stop is a sentinel error an onPacket callback can return from Run to end
// the pump without signaling an error to its own caller.
var Stop = fmt.Errorf("aochat: pump stop requested")

// Run drives the steady-state event pump (spec.md §4.6): it waits for a
// frame up to pingInterval; on arrival, decodes and delivers it to
// onPacket; on timeout with no input, sends a PING and resumes waiting.
// Run returns when ctx is canceled, the socket closes, or onPacket returns
// Stop (in which case Run returns nil) or any other non-nil error (which
// Run propagates).
func (s *Session) Run(ctx context.Context, pingInterval time.Duration, onPacket func(packet.ServerPacket) error) error {
	if err := s.requireLoggedIn("Run"); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-done:
		}
	}()

	s.conn.SetTimeout(pingInterval)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		typ, body, err := s.readFrame()
		if err != nil {
			var aerr *Error
			if errors.As(err, &aerr) && aerr.Kind == KindTimeout {
				if perr := s.Ping(" "); perr != nil {
					return perr
				}
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		pkt, derr := packet.Decode(typ, body)
		if derr != nil {
			s.metrics.DecodeError(typ)
			return newError(KindMalformedFrame, fmt.Sprintf("decoding frame type %d", typ), derr)
		}
		s.metrics.PacketDecoded(fmt.Sprintf("%T", pkt))
		dispatchStart := time.Now()
		cbErr := onPacket(pkt)
		s.metrics.ObserveDispatch(time.Since(dispatchStart).Seconds())
		if cbErr != nil {
			if cbErr == Stop {
				return nil
			}
			return cbErr
		}
	}
}
