// Package model contains the data records mirroring the remote billing
// resources (accounts, billing info, plans, subscriptions, transactions,
// invoices, coupons, add-ons) and their XML wire representation.
//
// Field names and nesting follow the provider's XML dialect exactly: each
// resource is a single root element (<account>, <plan>, ...), list responses
// wrap repeated elements (<accounts type="array">), and monetary amounts are
// integer cents, per-currency where the API requires it.
//
// The records are plain data; all request/response behavior lives in
// pkg/client.
package model
