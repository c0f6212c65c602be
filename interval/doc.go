/*Package interval implements interval-union operations over residue
  coordinates.  (Note the 'union'.  Overlapping intervals are merged, not
  tracked separately; fragment.Assemble is the place to look when individual
  members matter.)
  Intervals are 1-based and closed on both ends, matching the way peptide
  coordinates are reported.  Union stores the merged set as a sorted sequence
  of half-open endpoints so that membership is a binary search.
*/
package interval
