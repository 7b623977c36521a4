/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration entity stored under the
"_c:<package name>" key. The configuration is loaded from the genesis file
with InitConfig and can be changed later by its owner with a message handled
by UpdateConfigurationHandler.
*/
package gconf
