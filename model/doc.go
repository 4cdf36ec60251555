// Package model defines the core types shared by the store and its backends.
//
// # Types
//
//   - Record: one inflected form of a word plus free-text description
//   - Key: the composite (Word, Form) identity of a record
//
// A Record is a plain value. Backends copy records in and out; the store
// never hands out references to its internal index.
package model
