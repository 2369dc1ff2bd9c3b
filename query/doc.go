// Package query answers questions against the vector store.
//
// The Answerer embeds a question, retrieves the nearest passages from a
// namespace, renders them into a prompt, and asks the completion model
// for a short answer. The retrieved passages come back alongside the
// answer so callers can attribute it.
package query
