/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index, and may possess secondary indexes (1:1 or 1:N).
* Easy queries for one and iteration.
* Optional sequence to generate primary keys of new entities.

Storage layout:

  <bucket>:<key>                  model
  _i.<bucket>_<index>:<value>     primary key (unique) or MultiRef
  _s.<bucket>:<sequence>          big endian encoded counter
*/
package orm
