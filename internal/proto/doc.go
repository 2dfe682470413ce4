// Package proto defines the gophnotes.NotesService gRPC contract: request
// and response messages, the service descriptor, a typed client and the
// JSON codec the messages travel with.
//
// Calls made through NewNotesServiceClient select the codec automatically.
// Other clients must send content-subtype "json".
package proto
