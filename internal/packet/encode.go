package packet

import "aochat/internal/wire"

// EncodeLoginSelectCharacter builds the body that selects a character by id
// to complete login (type 3).
func EncodeLoginSelectCharacter(characterID wire.U32) []byte {
	return wire.EncodeU32(nil, characterID)
}

// EncodeNameLookup builds a character name resolution request (type 21).
func EncodeNameLookup(name string) ([]byte, error) {
	return wire.EncodeStr(nil, wire.Str(name))
}

// EncodePrivateMessage builds a tell to another character (type 30).
func EncodePrivateMessage(characterID wire.U32, text, extra string) ([]byte, error) {
	dst := wire.EncodeU32(nil, characterID)
	dst, err := wire.EncodeStr(dst, wire.Str(text))
	if err != nil {
		return nil, err
	}
	return wire.EncodeStr(dst, wire.Str(extra))
}

// EncodeBuddyAdd builds a buddy-list add request (type 40).
func EncodeBuddyAdd(characterID wire.U32, typ string) ([]byte, error) {
	dst := wire.EncodeU32(nil, characterID)
	return wire.EncodeStr(dst, wire.Str(typ))
}

// EncodeBuddyRemove builds a buddy-list removal request (type 41).
func EncodeBuddyRemove(characterID wire.U32) []byte {
	return wire.EncodeU32(nil, characterID)
}

// EncodeOnlineStatus builds an online-status toggle request (type 42).
func EncodeOnlineStatus(status wire.U32) []byte {
	return wire.EncodeU32(nil, status)
}

// EncodePrivchMessage builds a message sent to a private channel (type 57).
func EncodePrivchMessage(ownerID wire.U32, text, extra string) ([]byte, error) {
	dst := wire.EncodeU32(nil, ownerID)
	dst, err := wire.EncodeStr(dst, wire.Str(text))
	if err != nil {
		return nil, err
	}
	return wire.EncodeStr(dst, wire.Str(extra))
}

// EncodePrivchInviteRequest builds a private-channel invite request
// (type 50), addressed by the target character id.
func EncodePrivchInviteRequest(characterID wire.U32) []byte {
	return wire.EncodeU32(nil, characterID)
}

// EncodePrivchKickRequest builds a private-channel kick request (type 51).
func EncodePrivchKickRequest(characterID wire.U32) []byte {
	return wire.EncodeU32(nil, characterID)
}

// EncodePrivchJoinRequest builds a private-channel join acceptance (type 52).
func EncodePrivchJoinRequest(ownerID wire.U32) []byte {
	return wire.EncodeU32(nil, ownerID)
}

// EncodePrivchPartRequest builds a private-channel leave request (type 53).
func EncodePrivchPartRequest(ownerID wire.U32) []byte {
	return wire.EncodeU32(nil, ownerID)
}

// EncodeChannelMessage builds a message sent to a server-moderated channel
// (type 65).
func EncodeChannelMessage(channelID wire.ChannelID, text, extra string) ([]byte, error) {
	dst, err := wire.EncodeChannelID(nil, channelID)
	if err != nil {
		return nil, err
	}
	dst, err = wire.EncodeStr(dst, wire.Str(text))
	if err != nil {
		return nil, err
	}
	return wire.EncodeStr(dst, wire.Str(extra))
}

// EncodePing builds a keepalive ping (type 100).
func EncodePing(message string) ([]byte, error) {
	return wire.EncodeStr(nil, wire.Str(message))
}

// EncodeChatCommand builds a raw client-side chat command invocation
// (type 120), used for server features with no dedicated packet. The body
// is command followed by a second Str argument, per the catalog.
func EncodeChatCommand(command, args string) ([]byte, error) {
	dst, err := wire.EncodeStr(nil, wire.Str(command))
	if err != nil {
		return nil, err
	}
	return wire.EncodeStr(dst, wire.Str(args))
}
