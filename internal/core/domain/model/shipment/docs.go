// Package shipment contains the ShippingAssignment aggregate: the link between
// an order and its carrier tracking handle, plus the append-only log of status
// events. The aggregate owns the deduplication and ordering rules that make
// tracking ingestion idempotent under webhook retries and poll overlap.
package shipment
