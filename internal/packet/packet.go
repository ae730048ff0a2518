// Package packet implements the typed catalog of Anarchy Online chat frame
// bodies: one Go struct per server->client variant, a registry keyed by
// numeric type, and small encode functions for client->server variants.
// Adding a packet is purely additive: a new struct, a decode function, and
// a registry entry.
package packet

import (
	"fmt"

	"aochat/internal/wire"
)

// Server->client frame types (spec.md §4.3).
const (
	TypeLoginSeed      uint16 = 0
	TypeLoginOK        uint16 = 5
	TypeLoginError     uint16 = 6
	TypeCharacterList  uint16 = 7
	TypeClientUnknown  uint16 = 10
	TypeClientName     uint16 = 20
	TypeLookupResult   uint16 = 21
	TypeMsgPrivate     uint16 = 30
	TypeMsgVicinity    uint16 = 34
	TypeMsgBroadcast   uint16 = 35
	TypeMsgSystemSmp   uint16 = 36
	TypeMsgSystem      uint16 = 37
	TypeBuddyStatus    uint16 = 40
	TypeBuddyRemoved   uint16 = 41
	TypePrivchInvite   uint16 = 50
	TypePrivchKick     uint16 = 51
	TypePrivchJoin     uint16 = 52
	TypePrivchPart     uint16 = 53
	TypePrivchKickall  uint16 = 54
	TypePrivchClijoin  uint16 = 55
	TypePrivchClipart  uint16 = 56
	TypePrivchMsg      uint16 = 57
	TypeChannelJoin    uint16 = 60
	TypeChannelLeave   uint16 = 61
	TypeChannelMsg     uint16 = 65
	TypePong           uint16 = 100
)

// Client->server frame types (spec.md §4.3).
const (
	TypeLoginResponse        uint16 = 2
	TypeLoginSelectCharacter uint16 = 3
	TypeNameLookup           uint16 = 21
	TypeClientMsgPrivate     uint16 = 30
	TypeBuddyAdd             uint16 = 40
	TypeBuddyRemove          uint16 = 41
	TypeOnlineStatus         uint16 = 42
	TypeClientPrivchMsg      uint16 = 57
	TypeClientChannelMsg     uint16 = 65
	TypePing                 uint16 = 100
	TypeChatCommand          uint16 = 120
)

// ServerPacket is implemented by every decoded server->client frame body.
// The marker method keeps the sum closed to this package.
type ServerPacket interface {
	serverPacket()
}

// Unknown wraps a well-formed frame whose type is not in the catalog. It
// is delivered to callers rather than treated as an error, per spec.md §4.2.
type Unknown struct {
	Type uint16
	Body []byte
}

func (Unknown) serverPacket() {}

// LoginSeed carries the server's handshake seed (type 0).
type LoginSeed struct {
	Seed wire.Str
}

func (LoginSeed) serverPacket() {}

// LoginOK signals a successful character login (type 5).
type LoginOK struct{}

func (LoginOK) serverPacket() {}

// LoginError carries the server's rejection message for either the account
// login or character selection step (type 6).
type LoginError struct {
	Message wire.Str
}

func (LoginError) serverPacket() {}

// CharacterList enumerates the characters on the authenticated account
// (type 7), as four parallel arrays.
type CharacterList struct {
	IDs     []wire.U32
	Names   []wire.Str
	Levels  []wire.U32
	Online  []wire.U32
}

func (CharacterList) serverPacket() {}

// ClientUnknown reports an unknown character id lookup (type 10).
type ClientUnknown struct {
	CharacterID wire.U32
}

func (ClientUnknown) serverPacket() {}

// ClientName resolves a character id to a name (type 20).
type ClientName struct {
	CharacterID wire.U32
	Name        wire.Str
}

func (ClientName) serverPacket() {}

// LookupResult answers a NAME_LOOKUP request (type 21).
type LookupResult struct {
	CharacterID wire.U32
	Name        wire.Str
}

func (LookupResult) serverPacket() {}

// MsgPrivate is a private (tell) message from another character (type 30).
type MsgPrivate struct {
	CharacterID wire.U32
	Text        wire.Str
	Extra       wire.Str
}

func (MsgPrivate) serverPacket() {}

// MsgVicinity is area-scoped chat from a nearby character (type 34).
type MsgVicinity struct {
	CharacterID wire.U32
	Text        wire.Str
	Extra       wire.Str
}

func (MsgVicinity) serverPacket() {}

// MsgBroadcast is a dimension-wide announcement (type 35).
type MsgBroadcast struct {
	Sender wire.Str
	Text   wire.Str
	Extra  wire.Str
}

func (MsgBroadcast) serverPacket() {}

// MsgSystemSimple is an unparameterized system notice (type 36).
type MsgSystemSimple struct {
	Text wire.Str
}

func (MsgSystemSimple) serverPacket() {}

// SystemNoticeCategory is the fixed template category every MsgSystem
// notice is filed under; only Instance varies per notice.
const SystemNoticeCategory = 20000

// MsgSystem is a parameterized extended system notice (type 37):
// CharacterID and Unknown are server bookkeeping fields, Instance selects
// the notice template (alongside the fixed SystemNoticeCategory), and
// Message carries the template's substitution payload.
type MsgSystem struct {
	CharacterID wire.U32
	Unknown     wire.U32
	Instance    wire.U32
	Message     wire.Str
}

func (MsgSystem) serverPacket() {}

// BuddyStatus reports a buddy/friend presence change (type 40).
type BuddyStatus struct {
	CharacterID wire.U32
	Online      wire.U32
	Name        wire.Str
}

func (BuddyStatus) serverPacket() {}

// BuddyRemoved reports that a buddy was removed (type 41).
type BuddyRemoved struct {
	CharacterID wire.U32
}

func (BuddyRemoved) serverPacket() {}

// PrivchInvite is an invitation to a private channel (type 50).
type PrivchInvite struct {
	OwnerID wire.U32
}

func (PrivchInvite) serverPacket() {}

// PrivchKick reports removal from a private channel (type 51).
type PrivchKick struct {
	OwnerID wire.U32
}

func (PrivchKick) serverPacket() {}

// PrivchJoin confirms the client joined a private channel (type 52).
type PrivchJoin struct {
	OwnerID wire.U32
}

func (PrivchJoin) serverPacket() {}

// PrivchPart confirms the client left a private channel (type 53).
type PrivchPart struct {
	OwnerID wire.U32
}

func (PrivchPart) serverPacket() {}

// PrivchKickall reports that the private channel was disbanded (type 54).
type PrivchKickall struct{}

func (PrivchKickall) serverPacket() {}

// PrivchClijoin reports another character joining a private channel
// (type 55).
type PrivchClijoin struct {
	OwnerID     wire.U32
	CharacterID wire.U32
}

func (PrivchClijoin) serverPacket() {}

// PrivchClipart reports another character leaving a private channel
// (type 56).
type PrivchClipart struct {
	OwnerID     wire.U32
	CharacterID wire.U32
}

func (PrivchClipart) serverPacket() {}

// PrivchMsg is a message sent to a private channel (type 57).
type PrivchMsg struct {
	OwnerID     wire.U32
	CharacterID wire.U32
	Text        wire.Str
	Extra       wire.Str
}

func (PrivchMsg) serverPacket() {}

// ChannelJoin confirms the client joined a server-moderated channel
// (type 60).
type ChannelJoin struct {
	ChannelID wire.ChannelID
	Name      wire.Str
	Flags     wire.U32
	Extra     wire.Str
}

func (ChannelJoin) serverPacket() {}

// ChannelLeave confirms the client left a channel (type 61).
type ChannelLeave struct {
	ChannelID wire.ChannelID
}

func (ChannelLeave) serverPacket() {}

// ChannelMsg is a message sent to a channel (type 65).
type ChannelMsg struct {
	ChannelID   wire.ChannelID
	CharacterID wire.U32
	Text        wire.Str
	Extra       wire.Str
}

func (ChannelMsg) serverPacket() {}

// Pong answers a client PING (type 100).
type Pong struct {
	Message wire.Str
}

func (Pong) serverPacket() {}

type decodeFunc func(body []byte) (ServerPacket, error)

var registry = map[uint16]decodeFunc{
	TypeLoginSeed:     decodeLoginSeed,
	TypeLoginOK:       decodeLoginOK,
	TypeLoginError:    decodeLoginError,
	TypeCharacterList: decodeCharacterList,
	TypeClientUnknown: decodeClientUnknown,
	TypeClientName:    decodeClientName,
	TypeLookupResult:  decodeLookupResult,
	TypeMsgPrivate:    decodeMsgPrivate,
	TypeMsgVicinity:   decodeMsgVicinity,
	TypeMsgBroadcast:  decodeMsgBroadcast,
	TypeMsgSystemSmp:  decodeMsgSystemSimple,
	TypeMsgSystem:     decodeMsgSystem,
	TypeBuddyStatus:   decodeBuddyStatus,
	TypeBuddyRemoved:  decodeBuddyRemoved,
	TypePrivchInvite:  decodePrivchInvite,
	TypePrivchKick:    decodePrivchKick,
	TypePrivchJoin:    decodePrivchJoin,
	TypePrivchPart:    decodePrivchPart,
	TypePrivchKickall: decodePrivchKickall,
	TypePrivchClijoin: decodePrivchClijoin,
	TypePrivchClipart: decodePrivchClipart,
	TypePrivchMsg:     decodePrivchMsg,
	TypeChannelJoin:   decodeChannelJoin,
	TypeChannelLeave:  decodeChannelLeave,
	TypeChannelMsg:    decodeChannelMsg,
	TypePong:          decodePong,
}

// ErrTrailingBytes is returned when a body decodes successfully but leaves
// bytes unconsumed, violating the strict frame-boundary invariant.
var ErrTrailingBytes = fmt.Errorf("packet: trailing bytes after decoding body")

func requireEmpty(rest []byte) error {
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d bytes left over", ErrTrailingBytes, len(rest))
	}
	return nil
}

// Decode dispatches on typ to the matching catalog entry. A well-formed
// frame with an unrecognized type yields an Unknown rather than an error.
func Decode(typ uint16, body []byte) (ServerPacket, error) {
	fn, ok := registry[typ]
	if !ok {
		return Unknown{Type: typ, Body: body}, nil
	}
	return fn(body)
}

func decodeLoginSeed(body []byte) (ServerPacket, error) {
	seed, rest, err := wire.DecodeStr(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return LoginSeed{Seed: seed}, nil
}

func decodeLoginOK(body []byte) (ServerPacket, error) {
	if err := requireEmpty(body); err != nil {
		return nil, err
	}
	return LoginOK{}, nil
}

func decodeLoginError(body []byte) (ServerPacket, error) {
	msg, rest, err := wire.DecodeStr(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return LoginError{Message: msg}, nil
}

func decodeCharacterList(body []byte) (ServerPacket, error) {
	ids, rest, err := wire.DecodeU32Array(body)
	if err != nil {
		return nil, err
	}
	names, rest, err := wire.DecodeStrArray(rest)
	if err != nil {
		return nil, err
	}
	levels, rest, err := wire.DecodeU32Array(rest)
	if err != nil {
		return nil, err
	}
	online, rest, err := wire.DecodeU32Array(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return CharacterList{IDs: ids, Names: names, Levels: levels, Online: online}, nil
}

func decodeClientUnknown(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return ClientUnknown{CharacterID: id}, nil
}

func decodeClientName(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	name, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return ClientName{CharacterID: id, Name: name}, nil
}

func decodeLookupResult(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	name, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return LookupResult{CharacterID: id, Name: name}, nil
}

func decodeMsgPrivate(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	text, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	extra, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return MsgPrivate{CharacterID: id, Text: text, Extra: extra}, nil
}

func decodeMsgVicinity(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	text, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	extra, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return MsgVicinity{CharacterID: id, Text: text, Extra: extra}, nil
}

func decodeMsgBroadcast(body []byte) (ServerPacket, error) {
	sender, rest, err := wire.DecodeStr(body)
	if err != nil {
		return nil, err
	}
	text, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	extra, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return MsgBroadcast{Sender: sender, Text: text, Extra: extra}, nil
}

func decodeMsgSystemSimple(body []byte) (ServerPacket, error) {
	text, rest, err := wire.DecodeStr(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return MsgSystemSimple{Text: text}, nil
}

func decodeMsgSystem(body []byte) (ServerPacket, error) {
	characterID, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	unknown, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	instance, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	message, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return MsgSystem{CharacterID: characterID, Unknown: unknown, Instance: instance, Message: message}, nil
}

func decodeBuddyStatus(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	online, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	name, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return BuddyStatus{CharacterID: id, Online: online, Name: name}, nil
}

func decodeBuddyRemoved(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return BuddyRemoved{CharacterID: id}, nil
}

func decodePrivchInvite(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return PrivchInvite{OwnerID: id}, nil
}

func decodePrivchKick(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return PrivchKick{OwnerID: id}, nil
}

func decodePrivchJoin(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return PrivchJoin{OwnerID: id}, nil
}

func decodePrivchPart(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return PrivchPart{OwnerID: id}, nil
}

func decodePrivchKickall(body []byte) (ServerPacket, error) {
	if err := requireEmpty(body); err != nil {
		return nil, err
	}
	return PrivchKickall{}, nil
}

func decodePrivchClijoin(body []byte) (ServerPacket, error) {
	owner, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	char, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return PrivchClijoin{OwnerID: owner, CharacterID: char}, nil
}

func decodePrivchClipart(body []byte) (ServerPacket, error) {
	owner, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	char, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return PrivchClipart{OwnerID: owner, CharacterID: char}, nil
}

func decodePrivchMsg(body []byte) (ServerPacket, error) {
	owner, rest, err := wire.DecodeU32(body)
	if err != nil {
		return nil, err
	}
	char, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	text, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	extra, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return PrivchMsg{OwnerID: owner, CharacterID: char, Text: text, Extra: extra}, nil
}

func decodeChannelJoin(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeChannelID(body)
	if err != nil {
		return nil, err
	}
	name, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	flags, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	extra, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return ChannelJoin{ChannelID: id, Name: name, Flags: flags, Extra: extra}, nil
}

func decodeChannelLeave(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeChannelID(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return ChannelLeave{ChannelID: id}, nil
}

func decodeChannelMsg(body []byte) (ServerPacket, error) {
	id, rest, err := wire.DecodeChannelID(body)
	if err != nil {
		return nil, err
	}
	char, rest, err := wire.DecodeU32(rest)
	if err != nil {
		return nil, err
	}
	text, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	extra, rest, err := wire.DecodeStr(rest)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return ChannelMsg{ChannelID: id, CharacterID: char, Text: text, Extra: extra}, nil
}

func decodePong(body []byte) (ServerPacket, error) {
	msg, rest, err := wire.DecodeStr(body)
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(rest); err != nil {
		return nil, err
	}
	return Pong{Message: msg}, nil
}
