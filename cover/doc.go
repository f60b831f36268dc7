// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package cover coalesces per-position signal records, such as sequencing
depth tracks, into the maximal genomic intervals whose values satisfy a
matching criterion.

Input records arrive as delimited text sorted by (reference, position), one
line per position.  The accumulator keeps at most one candidate interval
open at a time, so arbitrarily large inputs are processed in a single pass
with constant memory.  Finished intervals use the half-open [start, end)
convention and can be rendered as BED text, BGZF-compressed BED, or a
recordio file with one fixed-width binary record per interval.
*/
package cover
