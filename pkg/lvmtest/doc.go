// Package lvmtest provides an in-memory LVM host for tests.
package lvmtest
