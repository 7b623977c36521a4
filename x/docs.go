/*
Package x contains the extensions of the custody application.

Extensions implement common functionality (Handler, Decorator,
Initializer etc.) and are combined together by the app package.

Note that types in exported code will be prefixed by the package, so follow
standard go naming conventions and avoid stutter. Use eg. `ledger.DepositMsg`
in place of `ledger.LedgerDepositMsg`.
*/
package x
