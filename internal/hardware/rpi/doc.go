// Package rpi implements the hardware backend on Raspberry Pi class
// boards using periph.io: plain GPIO for the LED, buzzer, button and the
// ultrasonic trigger/echo pair, and SPI for the MFRC522 card reader.
//
// The implementation only builds on Linux; elsewhere Open returns an
// error so the rest of the system (and its tests) stay portable.
package rpi
