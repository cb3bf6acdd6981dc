// Package biz holds the DocVault business logic.
//
// Ingestion:
//
//	upload -> DocumentService.Upload -> Dispatcher -> Pipeline.Process
//	          (row saved as processing)              extract -> split -> index -> active | error
//
// Chat:
//
//	ConversationService.Send -> save question -> history -> ChatEngine.Respond -> save reply
//
// Retrieval is always scoped to the asking user through the vector index
// metadata filter.
package biz
