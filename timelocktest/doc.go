/*
Package timelocktest provides mocks and helpers shared by the tests of the
timelock packages.
*/
package timelocktest
