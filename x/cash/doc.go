/*
Package cash implements the asset transfer service.

Balances are kept per address and asset ticker. The balance of any asset
may not go below zero. An asset can declare a transfer fee: the recipient of
a transfer receives the amount reduced by the fee and the fee is sent to the
collector address declared in the package configuration.

Code can attach hooks to an asset. Hooks are run after balances of a
transfer were updated, using the same context and store as the transfer.
A hook error fails the transfer.
*/
package cash
