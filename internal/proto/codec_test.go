package proto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_NoteTimestamps(t *testing.T) {
	c := jsonCodec{}
	ts := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)

	b, err := c.Marshal(&CreateNoteResponse{Note: &Note{Id: "n1", Title: "t", CreatedAt: Timestamp(ts), UpdatedAt: Timestamp(ts)}})
	require.NoError(t, err)

	var out CreateNoteResponse
	require.NoError(t, c.Unmarshal(b, &out))
	assert.True(t, ts.Equal(AsTime(out.Note.CreatedAt)))
	assert.True(t, ts.Equal(AsTime(out.Note.UpdatedAt)))
	assert.Equal(t, "n1", out.Note.Id)
}

func TestCodec_ExportOmitsZeroTimes(t *testing.T) {
	b, err := jsonCodec{}.Marshal(&Export{Id: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "expires_at")
	assert.NotContains(t, string(b), "url")
}

func TestTimestampConversion(t *testing.T) {
	assert.Nil(t, Timestamp(time.Time{}))
	assert.True(t, AsTime(nil).IsZero())

	ts := time.Date(2025, 5, 6, 7, 8, 9, 123000000, time.FixedZone("X", 3600))
	wire := Timestamp(ts)
	require.NotNil(t, wire)
	assert.Equal(t, ts.Unix(), wire.GetSeconds())
	assert.Equal(t, int32(123000000), wire.GetNanos())
	assert.True(t, ts.Equal(AsTime(wire)))
}

func TestServiceDesc_CoversEveryMethod(t *testing.T) {
	names := make([]string, 0, len(NotesService_ServiceDesc.Methods))
	for _, m := range NotesService_ServiceDesc.Methods {
		names = append(names, "/"+ServiceName+"/"+m.MethodName)
	}
	assert.ElementsMatch(t, []string{
		NotesService_Ping_FullMethodName,
		NotesService_Register_FullMethodName,
		NotesService_Login_FullMethodName,
		NotesService_RefreshToken_FullMethodName,
		NotesService_ChangePassword_FullMethodName,
		NotesService_DeleteAccount_FullMethodName,
		NotesService_ListNotes_FullMethodName,
		NotesService_CreateNote_FullMethodName,
		NotesService_UpdateNote_FullMethodName,
		NotesService_DeleteNote_FullMethodName,
		NotesService_ExportNotes_FullMethodName,
		NotesService_ListExports_FullMethodName,
		NotesService_GetExportLink_FullMethodName,
	}, names)
}
