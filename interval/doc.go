/*Package interval represents sets of genomic positions as interval-unions,
  the natural reading of a BED file.
  (Note the 'union'.  Intervals that touch or overlap are merged on load;
  callers that need to keep overlapping intervals distinct should use a
  different representation.)
  Positions must fit in a PosType, currently int32 since that's what BAM
  files are limited to.
*/
package interval
