// Package delivery contains the entities of one delivery attempt: the
// Assignment binding a driver to an external package, the two Tasks (pickup
// and dropoff) it always owns, the physical Stops those tasks are performed
// at, and Delay records for overrun travel windows.
//
// Stops are shared: when two assignments for the same driver touch the same
// address, their tasks point at one Stop. A Stop is therefore deleted only
// when its last Task is deleted, and its completion stamp is set only once
// every task at it has finished.
package delivery
