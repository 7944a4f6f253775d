// Package telemetry packs recorded frames into CAN frames.
//
// Each frame uses ID 0x120 with an 8 byte little endian payload:
//
//	bits  0-31  time      uint32, milliseconds
//	bits 32-47  position  int16, millimetres
//	bits 48-63  angle     int16, 1e-5 rad
//
// Frames can be written as a candump log with [WriteLog] or sent on a
// SocketCAN interface with [SocketCANWriter].
package telemetry
