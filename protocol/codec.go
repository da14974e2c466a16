package protocol

import (
	"bytes"
	"strconv"
)

/*
codec.go is C9: parsing `get`/`set`/`quit` command lines and formatting
`VALUE`, `END`, `STORED`, and error lines (spec.md §4.2). No repo in the
retrieval pack implements memcache text framing, so this file is built
directly from the grammar rather than adapted from an existing source;
it keeps Krishna8167-tempuscache's habit of one doc comment per exported
function and small, single-purpose helpers.
*/

// Kind identifies which of the three supported verbs a Command is.
type Kind int

const (
	KindGet Kind = iota
	KindSet
	KindQuit
)

// Command is the parsed form of one command line. Only the fields
// relevant to Kind are populated.
type Command struct {
	Kind Kind

	// KindGet
	Keys []string

	// KindSet
	Key     string
	Flags   uint32
	Exptime int64
	Bytes   int
	NoReply bool
}

/*
ParseCommand parses one command line (without its trailing \r\n — the
transport's line framer strips that, per spec.md §6). It returns
ErrInvalidCommand for an unknown verb or a header that doesn't meet the
grammar in spec.md §4.2: "get requires >= 2 tokens"; "set header
requires >= 5 whitespace-separated tokens; flags is a 32-bit
non-negative integer, exptime a 64-bit signed integer, bytes a
non-negative integer... noreply, if present, must be the literal token
noreply".
*/
func ParseCommand(line []byte) (Command, error) {
	tokens := bytes.Fields(line)
	if len(tokens) == 0 {
		return Command{}, ErrInvalidCommand
	}

	switch string(tokens[0]) {
	case "get":
		return parseGet(tokens)
	case "set":
		return parseSet(tokens)
	case "quit":
		if len(tokens) != 1 {
			return Command{}, ErrInvalidCommand
		}
		return Command{Kind: KindQuit}, nil
	default:
		return Command{}, ErrInvalidCommand
	}
}

func parseGet(tokens [][]byte) (Command, error) {
	if len(tokens) < 2 {
		return Command{}, ErrInvalidCommand
	}
	keys := make([]string, 0, len(tokens)-1)
	for _, t := range tokens[1:] {
		keys = append(keys, string(t))
	}
	return Command{Kind: KindGet, Keys: keys}, nil
}

func parseSet(tokens [][]byte) (Command, error) {
	if len(tokens) < 5 {
		return Command{}, ErrInvalidCommand
	}

	flags, err := strconv.ParseUint(string(tokens[2]), 10, 32)
	if err != nil {
		return Command{}, ErrInvalidCommand
	}
	exptime, err := strconv.ParseInt(string(tokens[3]), 10, 64)
	if err != nil {
		return Command{}, ErrInvalidCommand
	}
	size, err := strconv.ParseUint(string(tokens[4]), 10, 64)
	if err != nil {
		return Command{}, ErrInvalidCommand
	}

	noReply := false
	if len(tokens) >= 6 {
		if len(tokens) > 6 || string(tokens[5]) != "noreply" {
			return Command{}, ErrInvalidCommand
		}
		noReply = true
	}

	return Command{
		Kind:    KindSet,
		Key:     string(tokens[1]),
		Flags:   uint32(flags),
		Exptime: exptime,
		Bytes:   int(size),
		NoReply: noReply,
	}, nil
}

// Wire line terminators and literal response lines, spec.md §4.2.
const (
	crlf       = "\r\n"
	lineEnd    = "END" + crlf
	lineStored = "STORED" + crlf
	lineError  = "ERROR" + crlf
)

// EncodeValue formats one VALUE line and its payload. Flags is always
// emitted as 0 regardless of what was stored (spec §4.2: "flags is
// always emitted as 0; the stored flag value is ignored on emit —
// documented limitation").
func EncodeValue(key string, value []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("VALUE ")
	buf.WriteString(key)
	buf.WriteString(" 0 ")
	buf.WriteString(strconv.Itoa(len(value)))
	buf.WriteString(crlf)
	buf.Write(value)
	buf.WriteString(crlf)
	return buf.Bytes()
}

// EncodeEnd formats the END terminator that closes every get response.
func EncodeEnd() []byte { return []byte(lineEnd) }

// EncodeStored formats the acknowledgement for a successful set
// (suppressed entirely by the caller when NoReply was set).
func EncodeStored() []byte { return []byte(lineStored) }

// EncodeError formats the ERROR line for an InvalidCommand.
func EncodeError() []byte { return []byte(lineError) }

// EncodeClientError formats a CLIENT_ERROR line with reason.
func EncodeClientError(reason string) []byte {
	return []byte("CLIENT_ERROR " + reason + crlf)
}

// EncodeServerError formats a SERVER_ERROR line with reason.
func EncodeServerError(reason string) []byte {
	return []byte("SERVER_ERROR " + reason + crlf)
}

// EncodeErr formats err as the wire line its concrete type calls for:
// *ClientError becomes CLIENT_ERROR, *ServerError becomes SERVER_ERROR,
// anything else is treated as a server fault. Session uses this so the
// two error types carry their wire framing with them instead of each
// call site re-picking the right Encode* function.
func EncodeErr(err error) []byte {
	switch e := err.(type) {
	case *ClientError:
		return EncodeClientError(e.Reason)
	case *ServerError:
		return EncodeServerError(e.Reason)
	default:
		return EncodeServerError(err.Error())
	}
}
